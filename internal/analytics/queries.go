package analytics

// Pre-built Graph Data Science query templates. Every algorithm query
// carries an explicit ordering clause and a limit: unordered analytics
// results are not a reproducible contract.
//
// Parameters are always bound, never interpolated, so the templates stay
// injection-proof regardless of selector content.

const queryGraphExists = `
CALL gds.graph.exists($graph_name)
YIELD exists
RETURN exists`

const queryCreateProjection = `
CALL gds.graph.project(
    $graph_name,
    ['Author', 'Work', 'Topic'],
    {
        WORK_AUTHORED_BY: {orientation: 'UNDIRECTED'},
        WORK_HAS_TOPIC: {orientation: 'UNDIRECTED'}
    }
)
YIELD graphName, nodeCount, relationshipCount
RETURN graphName, nodeCount, relationshipCount`

const queryDropProjection = `
CALL gds.graph.drop($graph_name)
YIELD graphName
RETURN graphName`

const queryProjectionInfo = `
CALL gds.graph.list($graph_name)
YIELD graphName, nodeCount, relationshipCount, memoryUsage
RETURN graphName, nodeCount, relationshipCount, memoryUsage`

const queryDegreeCentrality = `
CALL gds.degree.stream($graph_name)
YIELD nodeId, score
WITH gds.util.asNode(nodeId) AS node, score
WHERE node:Work
RETURN node.id AS work_id, node.title AS title, score AS degree_centrality
ORDER BY score DESC
LIMIT $limit`

const queryBetweennessCentrality = `
CALL gds.betweenness.stream($graph_name)
YIELD nodeId, score
WITH gds.util.asNode(nodeId) AS node, score
WHERE node:Work AND score > 0
RETURN node.id AS work_id, node.title AS title, score AS betweenness_centrality
ORDER BY score DESC
LIMIT $limit`

const queryClosenessCentrality = `
CALL gds.closeness.stream($graph_name)
YIELD nodeId, score
WITH gds.util.asNode(nodeId) AS node, score
WHERE node:Work AND score > 0
RETURN node.id AS work_id, node.title AS title, score AS closeness_centrality
ORDER BY score DESC
LIMIT $limit`

const queryPageRank = `
CALL gds.pageRank.stream($graph_name)
YIELD nodeId, score
WITH gds.util.asNode(nodeId) AS node, score
WHERE node:Work
RETURN node.id AS work_id, node.title AS title, score AS pagerank_score
ORDER BY score DESC
LIMIT $limit`

const queryCommunityDetection = `
CALL gds.louvain.stream($graph_name)
YIELD nodeId, communityId
WITH gds.util.asNode(nodeId) AS node, communityId
WHERE node:Work
RETURN node.id AS work_id, node.title AS title, communityId AS community_id
ORDER BY communityId, work_id`

const queryShortestPath = `
MATCH (source:Work), (target:Work)
WHERE source.title CONTAINS $source_keyword AND target.id <> source.id
WITH source, target
LIMIT 1
CALL gds.shortestPath.dijkstra.stream($graph_name, {
    sourceNode: source,
    targetNode: target
})
YIELD index, sourceNode, targetNode, totalCost, nodeIds, costs, path
RETURN
    gds.util.asNode(sourceNode).title AS source_title,
    gds.util.asNode(targetNode).title AS target_title,
    totalCost,
    size(nodeIds) AS path_length,
    [nodeId IN nodeIds | gds.util.asNode(nodeId).title] AS path_titles
ORDER BY totalCost ASC
LIMIT $limit`

const queryNodeSimilarity = `
CALL gds.nodeSimilarity.stream($graph_name)
YIELD node1, node2, similarity
WITH gds.util.asNode(node1) AS work1, gds.util.asNode(node2) AS work2, similarity
WHERE work1:Work AND work2:Work AND similarity > $min_similarity
RETURN
    work1.id AS work1_id, work1.title AS work1_title,
    work2.id AS work2_id, work2.title AS work2_title,
    similarity AS similarity_score
ORDER BY similarity DESC
LIMIT $limit`

const queryRelatedByCentrality = `
MATCH (target:Work)
WHERE target.title CONTAINS $title_keyword OR target.id = $work_id
WITH target
LIMIT 1
CALL gds.pageRank.stream($graph_name)
YIELD nodeId, score AS pagerank
WITH target, gds.util.asNode(nodeId) AS node, pagerank
WHERE node:Work
CALL gds.louvain.stream($graph_name)
YIELD nodeId AS commNodeId, communityId
WITH target, node, pagerank,
     CASE WHEN id(node) = commNodeId THEN communityId ELSE null END AS community
WHERE community IS NOT NULL
WITH target, node, pagerank, community,
     CASE WHEN id(target) = commNodeId THEN communityId ELSE null END AS target_community
WHERE target_community IS NOT NULL
RETURN
    target.title AS target_work,
    node.id AS related_work_id,
    node.title AS related_work_title,
    pagerank AS pagerank_score,
    community AS community_id,
    CASE WHEN community = target_community THEN 1.0 ELSE 0.0 END AS same_community
ORDER BY pagerank DESC
LIMIT $limit`

const queryComprehensiveAnalysis = `
MATCH (target:Work)
WHERE target.title CONTAINS $title_keyword OR target.id = $work_id
WITH target
LIMIT 1
CALL gds.degree.stream($graph_name)
YIELD nodeId AS degreeNodeId, score AS degree
CALL gds.betweenness.stream($graph_name)
YIELD nodeId AS betweennessNodeId, score AS betweenness
CALL gds.closeness.stream($graph_name)
YIELD nodeId AS closenessNodeId, score AS closeness
CALL gds.pageRank.stream($graph_name)
YIELD nodeId AS pagerankNodeId, score AS pagerank
CALL gds.louvain.stream($graph_name)
YIELD nodeId AS communityNodeId, communityId
WITH target,
     COLLECT({nodeId: degreeNodeId, score: degree}) AS degreeScores,
     COLLECT({nodeId: betweennessNodeId, score: betweenness}) AS betweennessScores,
     COLLECT({nodeId: closenessNodeId, score: closeness}) AS closenessScores,
     COLLECT({nodeId: pagerankNodeId, score: pagerank}) AS pagerankScores,
     COLLECT({nodeId: communityNodeId, communityId: communityId}) AS communityData
UNWIND degreeScores AS degreeScore
WITH target, degreeScore, betweennessScores, closenessScores, pagerankScores, communityData
WHERE gds.util.asNode(degreeScore.nodeId):Work
WITH target,
     gds.util.asNode(degreeScore.nodeId) AS work,
     degreeScore.score AS degree,
     [bs IN betweennessScores WHERE bs.nodeId = degreeScore.nodeId | bs.score][0] AS betweenness,
     [cs IN closenessScores WHERE cs.nodeId = degreeScore.nodeId | cs.score][0] AS closeness,
     [ps IN pagerankScores WHERE ps.nodeId = degreeScore.nodeId | ps.score][0] AS pagerank,
     [cd IN communityData WHERE cd.nodeId = degreeScore.nodeId | cd.communityId][0] AS community
WHERE work.id <> target.id
RETURN
    target.title AS target_work,
    work.id AS related_work_id,
    work.title AS related_work_title,
    degree AS degree_centrality,
    betweenness AS betweenness_centrality,
    closeness AS closeness_centrality,
    pagerank AS pagerank_score,
    community AS community_id
ORDER BY pagerank DESC
LIMIT $limit`

const queryTriangles = `
CALL gds.triangleCount.stream($graph_name)
YIELD nodeId, triangleCount
WITH gds.util.asNode(nodeId) AS node, triangleCount
WHERE node:Work AND triangleCount > 0
RETURN node.id AS work_id, node.title AS title, triangleCount AS triangle_count
ORDER BY triangleCount DESC
LIMIT $limit`

const queryLocalClustering = `
CALL gds.localClusteringCoefficient.stream($graph_name)
YIELD nodeId, localClusteringCoefficient
WITH gds.util.asNode(nodeId) AS node, localClusteringCoefficient
WHERE node:Work AND localClusteringCoefficient > 0
RETURN node.id AS work_id, node.title AS title,
       localClusteringCoefficient AS clustering_coefficient
ORDER BY localClusteringCoefficient DESC
LIMIT $limit`

const queryWeaklyConnectedComponents = `
CALL gds.wcc.stream($graph_name)
YIELD nodeId, componentId
WITH gds.util.asNode(nodeId) AS node, componentId
WHERE node:Work
RETURN node.id AS work_id, node.title AS title, componentId AS component_id
ORDER BY componentId, work_id`

// kindQueries maps each analysis kind to the templates it runs.
// Kinds with several templates execute them sequentially within the kind's
// own task and concatenate the decoded records.
var kindQueries = map[AnalysisKind][]string{
	KindComprehensive: {queryComprehensiveAnalysis},
	KindCommunity:     {queryRelatedByCentrality},
	KindCentrality:    {queryPageRank},
	KindShortestPath:  {queryShortestPath},
	KindSimilarity:    {queryNodeSimilarity},
	KindConnectivity:  {queryTriangles, queryLocalClustering},
	KindComponents:    {queryWeaklyConnectedComponents},
}

// centralityQueries are the four centrality measures run by the
// whole-graph centrality metrics report.
var centralityQueries = map[string]string{
	"degree_centrality":      queryDegreeCentrality,
	"betweenness_centrality": queryBetweennessCentrality,
	"closeness_centrality":   queryClosenessCentrality,
	"pagerank_score":         queryPageRank,
}
