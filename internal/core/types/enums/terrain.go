package enums

import "strings"

type Terrain uint8

const (
	TerrainFloor Terrain = iota
	TerrainGrass
	TerrainWater
	TerrainMountain
	TerrainWall
	TerrainCustom
)

var terrainToString = map[Terrain]string{
	TerrainFloor:    "FLOOR",
	TerrainGrass:    "GRASS",
	TerrainWater:    "WATER",
	TerrainMountain: "MOUNTAIN",
	TerrainWall:     "WALL",
	TerrainCustom:   "CUSTOM",
}

var terrainStringToType = map[string]Terrain{
	"FLOOR":    TerrainFloor,
	"GRASS":    TerrainGrass,
	"WATER":    TerrainWater,
	"MOUNTAIN": TerrainMountain,
	"WALL":     TerrainWall,
	"CUSTOM":   TerrainCustom,
}

func (t Terrain) String() string {
	if val, ok := terrainToString[t]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseTerrain - неизвестный тип считаем CUSTOM
func ParseTerrain(s string) Terrain {
	if val, ok := terrainStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return TerrainCustom
}

// DefaultTags - теги, которые тайл получает от рельефа по умолчанию
func (t Terrain) DefaultTags() TileTag {
	switch t {
	case TerrainWall:
		return TagBlocksMovement | TagBlocksVision
	case TerrainMountain:
		return TagBlocksMovement | TagBlocksVision
	case TerrainWater:
		return TagBlocksMovement
	default:
		return 0
	}
}

// TileTag - битовая маска свойств тайла
type TileTag uint8

const (
	TagBlocksMovement TileTag = 1 << iota
	TagBlocksVision
	TagStartZone
	TagTrapZone
)

var tileTagToString = []struct {
	tag  TileTag
	name string
}{
	{TagBlocksMovement, "BLOCKS_MOVEMENT"},
	{TagBlocksVision, "BLOCKS_VISION"},
	{TagStartZone, "START_ZONE"},
	{TagTrapZone, "TRAP_ZONE"},
}

func (t TileTag) Has(flag TileTag) bool {
	return t&flag != 0
}

func (t TileTag) String() string {
	var parts []string
	for _, e := range tileTagToString {
		if t.Has(e.tag) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseTileTags собирает маску из списка имен. Неизвестные имена игнорируются.
func ParseTileTags(names []string) TileTag {
	var mask TileTag
	for _, n := range names {
		upper := strings.ToUpper(n)
		for _, e := range tileTagToString {
			if e.name == upper {
				mask |= e.tag
			}
		}
	}
	return mask
}

// Topology - тип смежности сетки
type Topology uint8

const (
	TopologySquare Topology = iota
	TopologyHex
)

func (t Topology) String() string {
	if t == TopologyHex {
		return "HEX"
	}
	return "SQUARE"
}

func ParseTopology(s string) Topology {
	if strings.ToUpper(s) == "HEX" {
		return TopologyHex
	}
	return TopologySquare
}
