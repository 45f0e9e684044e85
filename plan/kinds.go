package plan

import (
	"fmt"
)

// OpKind identifies an operator on the wire. These values are part of the
// wire format and must not change.
type OpKind int32

// Loaders
const (
	OpLoad OpKind = iota + 1
	OpLoadTextFile
	OpLoadCsvFiles
	OpLoadMarmotFile
	OpQuery
	OpLoadSquareGridFile
	OpLoadHexagonGridFile
	OpLoadSpatialClusterIndex
	OpLoadCustomTextFile
)

// Record-level operators
const (
	OpFilter OpKind = iota + 100
	OpFilterSpatially
	OpProject
	OpUpdate
	OpExpand
	OpDefineColumn
	OpAssignUID
	OpRename
	OpTake
	OpDrop
	OpSample
	OpShard
	OpSort
	OpRank
	OpDistinct
	OpTee
	OpParseCsv
	OpScript
	OpNop
)

// Grouping and aggregation
const (
	OpAggregate OpKind = iota + 200
	OpAggregateByGroup
	OpTakeByGroup
	OpListByGroup
	OpReduceToSingleRecordByGroup
	OpRunPlanByGroup
)

// Geometry transforms
const (
	OpBuffer OpKind = iota + 300
	OpCentroid
	OpPointOnSurface
	OpTransformCrs
	OpToXY
	OpToPoint
	OpIntersection
	OpDifference
	OpUnion
	OpReduce
	OpValidateGeometry
	OpCastGeometry
	OpAttachGeohash
	OpAttachQuadKey
	OpAssignSquareGridCell
	OpAssignHexagonGridCell
	OpBreakLineString
	OpFlatten
	OpSplitGeometry
	OpArcClip
)

// Joins
const (
	OpHashJoin OpKind = iota + 400
	OpSpatialJoin
	OpSpatialSemiJoin
	OpSpatialAntiJoin
	OpSpatialOuterJoin
	OpSpatialAggregateJoin
	OpSpatialKnnJoin
	OpIntersectionJoin
	OpDifferenceJoin
	OpClipJoin
	OpArcUnionPhase1
)

// Clustering and indexing
const (
	OpEstimateQuadKeys OpKind = iota + 500
	OpClusterByQuadKey
	OpEstimateIDWValue
	OpInterpolateSpatially
	OpKMeans
	OpCollectToArrayColumn
	OpBuildThumbnail
	OpCreateSpatialIndex
)

// Outputs
const (
	OpStore OpKind = iota + 600
	OpStoreAsCsv
	OpStoreAsHeapfile
	OpStoreIntoJdbc
	OpStoreIntoKafka
	OpStoreAndReturnCount
)

type category int

const (
	loaderCategory category = iota
	recordCategory
	aggregateCategory
	geometryCategory
	joinCategory
	clusterCategory
	storeCategory
)

type kindInfo struct {
	name     string
	category category
	blocking bool // needs its whole input before producing output
}

var kindInfos = map[OpKind]kindInfo{
	OpLoad:                    {"load", loaderCategory, false},
	OpLoadTextFile:            {"load_text_file", loaderCategory, false},
	OpLoadCsvFiles:            {"load_csv_files", loaderCategory, false},
	OpLoadMarmotFile:          {"load_marmot_file", loaderCategory, false},
	OpQuery:                   {"query", loaderCategory, false},
	OpLoadSquareGridFile:      {"load_square_grid_file", loaderCategory, false},
	OpLoadHexagonGridFile:     {"load_hexagon_grid_file", loaderCategory, false},
	OpLoadSpatialClusterIndex: {"load_spatial_cluster_index", loaderCategory, false},
	OpLoadCustomTextFile:      {"load_custom_text_file", loaderCategory, false},

	OpFilter:          {"filter", recordCategory, false},
	OpFilterSpatially: {"filter_spatially", recordCategory, false},
	OpProject:         {"project", recordCategory, false},
	OpUpdate:          {"update", recordCategory, false},
	OpExpand:          {"expand", recordCategory, false},
	OpDefineColumn:    {"define_column", recordCategory, false},
	OpAssignUID:       {"assign_uid", recordCategory, false},
	OpRename:          {"rename", recordCategory, false},
	OpTake:            {"take", recordCategory, false},
	OpDrop:            {"drop", recordCategory, false},
	OpSample:          {"sample", recordCategory, false},
	OpShard:           {"shard", recordCategory, true},
	OpSort:            {"sort", recordCategory, true},
	OpRank:            {"rank", recordCategory, true},
	OpDistinct:        {"distinct", recordCategory, true},
	OpTee:             {"tee", recordCategory, false},
	OpParseCsv:        {"parse_csv", recordCategory, false},
	OpScript:          {"script", recordCategory, false},
	OpNop:             {"nop", recordCategory, false},

	OpAggregate:                   {"aggregate", aggregateCategory, true},
	OpAggregateByGroup:            {"aggregate_by_group", aggregateCategory, true},
	OpTakeByGroup:                 {"take_by_group", aggregateCategory, true},
	OpListByGroup:                 {"list_by_group", aggregateCategory, true},
	OpReduceToSingleRecordByGroup: {"reduce_to_single_record_by_group", aggregateCategory, true},
	OpRunPlanByGroup:              {"run_plan_by_group", aggregateCategory, true},

	OpBuffer:                {"buffer", geometryCategory, false},
	OpCentroid:              {"centroid", geometryCategory, false},
	OpPointOnSurface:        {"point_on_surface", geometryCategory, false},
	OpTransformCrs:          {"transform_crs", geometryCategory, false},
	OpToXY:                  {"to_xy", geometryCategory, false},
	OpToPoint:               {"to_point", geometryCategory, false},
	OpIntersection:          {"intersection", geometryCategory, false},
	OpDifference:            {"difference", geometryCategory, false},
	OpUnion:                 {"union", geometryCategory, false},
	OpReduce:                {"reduce", geometryCategory, false},
	OpValidateGeometry:      {"validate_geometry", geometryCategory, false},
	OpCastGeometry:          {"cast_geometry", geometryCategory, false},
	OpAttachGeohash:         {"attach_geohash", geometryCategory, false},
	OpAttachQuadKey:         {"attach_quad_key", geometryCategory, false},
	OpAssignSquareGridCell:  {"assign_square_grid_cell", geometryCategory, false},
	OpAssignHexagonGridCell: {"assign_hexagon_grid_cell", geometryCategory, false},
	OpBreakLineString:       {"break_line_string", geometryCategory, false},
	OpFlatten:               {"flatten", geometryCategory, false},
	OpSplitGeometry:         {"split_geometry", geometryCategory, false},
	OpArcClip:               {"arc_clip", geometryCategory, false},

	OpHashJoin:             {"hash_join", joinCategory, true},
	OpSpatialJoin:          {"spatial_join", joinCategory, true},
	OpSpatialSemiJoin:      {"spatial_semi_join", joinCategory, true},
	OpSpatialAntiJoin:      {"spatial_anti_join", joinCategory, true},
	OpSpatialOuterJoin:     {"spatial_outer_join", joinCategory, true},
	OpSpatialAggregateJoin: {"spatial_aggregate_join", joinCategory, true},
	OpSpatialKnnJoin:       {"spatial_knn_join", joinCategory, true},
	OpIntersectionJoin:     {"intersection_join", joinCategory, true},
	OpDifferenceJoin:       {"difference_join", joinCategory, true},
	OpClipJoin:             {"clip_join", joinCategory, true},
	OpArcUnionPhase1:       {"arc_union_phase1", joinCategory, true},

	OpEstimateQuadKeys:     {"estimate_quad_keys", clusterCategory, true},
	OpClusterByQuadKey:     {"cluster_by_quad_key", clusterCategory, true},
	OpEstimateIDWValue:     {"estimate_idw_value", clusterCategory, true},
	OpInterpolateSpatially: {"interpolate_spatially", clusterCategory, true},
	OpKMeans:               {"kmeans", clusterCategory, true},
	OpCollectToArrayColumn: {"collect_to_array_column", clusterCategory, true},
	OpBuildThumbnail:       {"build_thumbnail", clusterCategory, true},
	OpCreateSpatialIndex:   {"create_spatial_index", clusterCategory, true},

	OpStore:               {"store", storeCategory, false},
	OpStoreAsCsv:          {"store_as_csv", storeCategory, false},
	OpStoreAsHeapfile:     {"store_as_heapfile", storeCategory, false},
	OpStoreIntoJdbc:       {"store_into_jdbc", storeCategory, false},
	OpStoreIntoKafka:      {"store_into_kafka", storeCategory, false},
	OpStoreAndReturnCount: {"store_and_return_count", storeCategory, false},
}

// String returns the snake_case name of this OpKind
func (k OpKind) String() string {
	if info, ok := kindInfos[k]; ok {
		return info.name
	}
	return fmt.Sprintf("OpKind(%d)", int32(k))
}

// Known returns true iff k is a defined OpKind
func (k OpKind) Known() bool {
	_, ok := kindInfos[k]
	return ok
}

// IsLoader returns true iff k reads a plan's input
func (k OpKind) IsLoader() bool {
	return kindInfos[k].category == loaderCategory && k.Known()
}

// IsStore returns true iff k writes a plan's output
func (k OpKind) IsStore() bool {
	return kindInfos[k].category == storeCategory && k.Known()
}

// IsBlocking returns true iff k must consume its whole input before emitting
// records (aggregations, sorts and joins)
func (k OpKind) IsBlocking() bool {
	return kindInfos[k].blocking
}
