package entity

import (
	"taskboard/internal/entity/common"
)

// Type aliases for shared helper types.
type StringArray = common.StringArray
type JSONMap = common.JSONMap
type Meta = common.Meta
type BaseParams = common.BaseParams
