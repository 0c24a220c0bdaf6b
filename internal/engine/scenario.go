package engine

import (
	"cognitive-encounter/internal/core/types/enums"
	"cognitive-encounter/internal/domain"
	"cognitive-encounter/pkg/roster"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Scenario - описание энкаунтера: карта, лор и состав участников.
// Карта задается строками, один символ - один тайл:
//
//	'.' пол, ',' трава, '~' вода, '^' горы, '#' стена,
//	'S' стартовая зона, 'x' зона ловушек.
type Scenario struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	TimeOfDay   string   `toml:"time_of_day"`
	Weather     string   `toml:"weather"`
	Topology    string   `toml:"topology"`
	Region      uint8    `toml:"region"`
	Map         []string `toml:"map"`

	Lore   []LoreEntry  `toml:"lore"`
	Tiles  []TileEntry  `toml:"tiles"`
	Spawns []SpawnEntry `toml:"spawn"`
}

// LoreEntry - текст региона, на который ссылаются тайлы
type LoreEntry struct {
	Ref  string `toml:"ref"`
	Text string `toml:"text"`
}

// TileEntry - точечное переопределение тайла
type TileEntry struct {
	X       int      `toml:"x"`
	Y       int      `toml:"y"`
	Terrain string   `toml:"terrain"`
	Tags    []string `toml:"tags"`
	LoreRef string   `toml:"lore_ref"`
}

// SpawnEntry - участник из бестиария
type SpawnEntry struct {
	Template string `toml:"template"`
	Name     string `toml:"name"`
	Faction  string `toml:"faction"`
	X        *int   `toml:"x"`
	Y        *int   `toml:"y"`
	Human    bool   `toml:"human"`
}

var legend = map[rune]struct {
	terrain enums.Terrain
	tags    enums.TileTag
}{
	'.': {enums.TerrainFloor, 0},
	',': {enums.TerrainGrass, 0},
	'~': {enums.TerrainWater, 0},
	'^': {enums.TerrainMountain, 0},
	'#': {enums.TerrainWall, 0},
	'S': {enums.TerrainFloor, enums.TagStartZone},
	'x': {enums.TerrainFloor, enums.TagTrapZone},
}

// LoadScenario читает сценарий из TOML-файла
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := toml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Spawns) == 0 {
		return nil, errors.New("parse scenario: no spawns")
	}
	if sc.Name == "" {
		sc.Name = "unnamed"
	}
	return &sc, nil
}

// BuildWorld строит карту. Сценарий без строк карты - бой без позиций (nil).
func (sc *Scenario) BuildWorld() (*domain.World, error) {
	if len(sc.Map) == 0 {
		return nil, nil
	}

	width := 0
	for _, row := range sc.Map {
		if n := len([]rune(row)); n > width {
			width = n
		}
	}
	w := domain.NewWorld(width, len(sc.Map), enums.ParseTopology(sc.Topology))
	w.Lore = domain.NewWorldLore(sc.Description, sc.TimeOfDay, sc.Weather)

	for y, row := range sc.Map {
		x := 0
		for _, ch := range row {
			cell, ok := legend[ch]
			if !ok {
				return nil, fmt.Errorf("scenario %s: unknown map symbol %q at %d,%d", sc.Name, ch, x, y)
			}
			if err := w.SetTile(domain.Position{X: x, Y: y}, cell.terrain, cell.tags, ""); err != nil {
				return nil, err
			}
			x++
		}
		// Короткие строки добиваем стеной
		for ; x < width; x++ {
			_ = w.SetTile(domain.Position{X: x, Y: y}, enums.TerrainWall, 0, "")
		}
	}

	for _, l := range sc.Lore {
		w.Lore.SetRegion(l.Ref, l.Text)
	}

	for _, t := range sc.Tiles {
		p := domain.Position{X: t.X, Y: t.Y}
		current, err := w.TileAt(p)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: tile override: %w", sc.Name, err)
		}
		terrain := current.Terrain
		if t.Terrain != "" {
			terrain = enums.ParseTerrain(t.Terrain)
		}
		tags := (current.Tags &^ current.Terrain.DefaultTags()) | enums.ParseTileTags(t.Tags)
		if err := w.SetTile(p, terrain, tags, t.LoreRef); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Populate спавнит участников и расставляет их по карте.
// Ловушки тайл не занимают: на них можно наступить.
func (sc *Scenario) Populate(spawner *roster.Spawner, w *domain.World, trapResetRounds int) ([]*domain.Entity, error) {
	out := make([]*domain.Entity, 0, len(sc.Spawns))
	// Размеченные зоны обязательны: игроки только в 'S', ловушки только в 'x'
	starts := zoneOf(w, enums.TagStartZone)
	trapZone := zoneOf(w, enums.TagTrapZone)

	for i, s := range sc.Spawns {
		opts := roster.SpawnOptions{Name: s.Name, Faction: s.Faction, Human: s.Human}
		if s.X != nil && s.Y != nil {
			opts.Pos = &domain.Position{X: *s.X, Y: *s.Y}
		} else if w != nil {
			return nil, fmt.Errorf("scenario %s: spawn #%d (%s) has no position", sc.Name, i, s.Template)
		}

		e, err := spawner.Spawn(s.Template, opts)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		if e.Trap != nil && e.Trap.ResetAfter == 0 {
			e.Trap.ResetAfter = trapResetRounds
		}

		switch {
		case e.Kind == enums.EntityKindPlayer && starts != nil && !starts[*e.Pos]:
			return nil, fmt.Errorf("scenario %s: %s at %v is outside the start zone: %w", sc.Name, e.Name, *e.Pos, domain.ErrInvalidTarget)
		case e.Kind == enums.EntityKindTrap && trapZone != nil && !trapZone[*e.Pos]:
			return nil, fmt.Errorf("scenario %s: %s at %v is outside the trap zone: %w", sc.Name, e.Name, *e.Pos, domain.ErrInvalidTarget)
		}

		if w != nil && e.Kind != enums.EntityKindTrap {
			if err := w.Place(e.ID, *e.Pos); err != nil {
				return nil, fmt.Errorf("scenario %s: place %s: %w", sc.Name, e.Name, err)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// zoneOf - тайлы с тегом. nil, если карты нет или тег на ней не размечен.
func zoneOf(w *domain.World, tag enums.TileTag) map[domain.Position]bool {
	if w == nil {
		return nil
	}
	tiles := w.TilesWithTag(tag)
	if len(tiles) == 0 {
		return nil
	}
	set := make(map[domain.Position]bool, len(tiles))
	for _, p := range tiles {
		set[p] = true
	}
	return set
}
