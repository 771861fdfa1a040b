package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/simdata/simstore/internal/simdata"
	"github.com/simdata/simstore/internal/store"
)

// Scenario is a scripted scenario: entities with their data, plus the
// clock values and filters the CLI replays against them.
//
//	properties: {description: demo}
//	entities:
//	  - key: ship
//	    type: platform
//	    prefs: {commonprefs: {name: Ship}}
//	    updates: [{time: 0, x: 0}, {time: 10, x: 100}]
//	  - key: radar
//	    type: beam
//	    host: ship
//	    commands: [{time: 5, updateprefs: {commonprefs: {datadraw: false}}}]
//	times: [0, 5, 10]
type Scenario struct {
	Properties yaml.Node             `yaml:"properties"`
	Generic    []simdata.GenericData `yaml:"generic"`
	Entities   []Entity              `yaml:"entities"`
	Times      []float64             `yaml:"times"`
	Filters    []string              `yaml:"filters"`
}

// Entity is one scripted entity. Properties, Prefs, Updates and Commands
// are decoded into the record types of Type when the scenario is applied.
type Entity struct {
	Key        string                 `yaml:"key"`
	Type       string                 `yaml:"type"`
	Host       string                 `yaml:"host"`
	Properties yaml.Node              `yaml:"properties"`
	Prefs      yaml.Node              `yaml:"prefs"`
	Updates    yaml.Node              `yaml:"updates"`
	Commands   yaml.Node              `yaml:"commands"`
	Categories []simdata.CategoryData `yaml:"categories"`
	Generic    []simdata.GenericData  `yaml:"generic"`
}

var (
	ErrUnknownType = errors.New("unknown entity type")
	ErrUnknownHost = errors.New("unknown host key")
	ErrDuplicate   = errors.New("duplicate entity key")
)

// LoadScenario loads a scenario script.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := ParseScenario(raw)
	if err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return sc, nil
}

func ParseScenario(raw []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(sc.Entities))
	for i := range sc.Entities {
		e := &sc.Entities[i]
		if _, ok := simdata.ParseObjectType(e.Type); !ok {
			return nil, fmt.Errorf("entity %q: %w %q", e.Key, ErrUnknownType, e.Type)
		}
		if e.Key != "" && seen[e.Key] {
			return nil, fmt.Errorf("entity %q: %w", e.Key, ErrDuplicate)
		}
		seen[e.Key] = true
	}
	return &sc, nil
}

// Apply adds the scenario to s in script order and returns the store id of
// every keyed entity. A host must appear before the entities it hosts.
func (sc *Scenario) Apply(s *store.MemoryStore) (map[string]simdata.ObjectID, error) {
	if !isEmpty(&sc.Properties) {
		p, txn := s.MutableScenarioProperties()
		if err := decodeAndFinish(&sc.Properties, p, txn); err != nil {
			return nil, fmt.Errorf("scenario properties: %w", err)
		}
	}
	if err := addGeneric(s, 0, sc.Generic); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	ids := make(map[string]simdata.ObjectID, len(sc.Entities))
	for i := range sc.Entities {
		e := &sc.Entities[i]
		var host simdata.ObjectID
		if e.Host != "" {
			h, ok := ids[e.Host]
			if !ok {
				return nil, fmt.Errorf("entity %q: %w %q", e.Key, ErrUnknownHost, e.Host)
			}
			host = h
		}
		id, err := applyEntity(s, e, host)
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", e.Key, err)
		}
		if e.Key != "" {
			ids[e.Key] = id
		}
	}
	return ids, nil
}

func applyEntity(s *store.MemoryStore, e *Entity, host simdata.ObjectID) (simdata.ObjectID, error) {
	typ, _ := simdata.ParseObjectType(e.Type)
	switch typ {
	case simdata.Platform:
		return load(s, e, loader[simdata.PlatformProperties, simdata.PlatformPrefs, simdata.PlatformUpdate]{
			add:     s.AddPlatform,
			setHost: func(*simdata.PlatformProperties, simdata.ObjectID) {},
			prefs:   s.MutablePlatformPrefs,
			update:  s.AddPlatformUpdate,
			command: s.AddPlatformCommand,
		}, host)
	case simdata.Beam:
		return load(s, e, loader[simdata.BeamProperties, simdata.BeamPrefs, simdata.BeamUpdate]{
			add:     s.AddBeam,
			setHost: func(p *simdata.BeamProperties, h simdata.ObjectID) { p.HostID = h },
			prefs:   s.MutableBeamPrefs,
			update:  s.AddBeamUpdate,
			command: s.AddBeamCommand,
		}, host)
	case simdata.Gate:
		return load(s, e, loader[simdata.GateProperties, simdata.GatePrefs, simdata.GateUpdate]{
			add:     s.AddGate,
			setHost: func(p *simdata.GateProperties, h simdata.ObjectID) { p.HostID = h },
			prefs:   s.MutableGatePrefs,
			update:  s.AddGateUpdate,
			command: s.AddGateCommand,
		}, host)
	case simdata.Laser:
		return load(s, e, loader[simdata.LaserProperties, simdata.LaserPrefs, simdata.LaserUpdate]{
			add:     s.AddLaser,
			setHost: func(p *simdata.LaserProperties, h simdata.ObjectID) { p.HostID = h },
			prefs:   s.MutableLaserPrefs,
			update:  s.AddLaserUpdate,
			command: s.AddLaserCommand,
		}, host)
	case simdata.Projector:
		return load(s, e, loader[simdata.ProjectorProperties, simdata.ProjectorPrefs, simdata.ProjectorUpdate]{
			add:     s.AddProjector,
			setHost: func(p *simdata.ProjectorProperties, h simdata.ObjectID) { p.HostID = h },
			prefs:   s.MutableProjectorPrefs,
			update:  s.AddProjectorUpdate,
			command: s.AddProjectorCommand,
		}, host)
	case simdata.LobGroup:
		return load(s, e, loader[simdata.LobGroupProperties, simdata.LobGroupPrefs, simdata.LobGroupUpdate]{
			add:     s.AddLobGroup,
			setHost: func(p *simdata.LobGroupProperties, h simdata.ObjectID) { p.HostID = h },
			prefs:   s.MutableLobGroupPrefs,
			update:  s.AddLobGroupUpdate,
			command: s.AddLobGroupCommand,
		}, host)
	case simdata.CustomRendering:
		// Custom renderings carry no update records.
		return load(s, e, loader[simdata.CustomRenderingProperties, simdata.CustomRenderingPrefs, struct{}]{
			add:     s.AddCustomRendering,
			setHost: func(p *simdata.CustomRenderingProperties, h simdata.ObjectID) { p.HostID = h },
			prefs:   s.MutableCustomRenderingPrefs,
			command: s.AddCustomRenderingCommand,
		}, host)
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownType, e.Type)
}

// loader binds the typed store operations of one entity type.
type loader[Props, P, U any] struct {
	add     func() (*Props, *store.Transaction)
	setHost func(*Props, simdata.ObjectID)
	prefs   func(simdata.ObjectID) (*P, *store.Transaction)
	update  func(simdata.ObjectID) (*U, *store.Transaction)
	command func(simdata.ObjectID) (*simdata.Command[P], *store.Transaction)
}

type propsPtr[Props any] interface {
	*Props
	simdata.Properties
}

func load[Props, P, U any, PP propsPtr[Props]](s *store.MemoryStore, e *Entity, l loader[Props, P, U], host simdata.ObjectID) (simdata.ObjectID, error) {
	props, txn := l.add()
	id := PP(props).GetID()
	if err := decode(&e.Properties, props); err != nil {
		txn.Release()
		return 0, fmt.Errorf("properties: %w", err)
	}
	// The store assigns the id; the script names the host by key.
	if got := PP(props).GetID(); got != id {
		txn.Release()
		return 0, fmt.Errorf("properties: id %d is assigned by the store", got)
	}
	l.setHost(props, host)
	if err := finish(txn); err != nil {
		return 0, fmt.Errorf("add: %w", err)
	}

	if !isEmpty(&e.Prefs) {
		prefs, txn := l.prefs(id)
		if err := decode(&e.Prefs, prefs); err != nil {
			txn.Release()
			return 0, fmt.Errorf("prefs: %w", err)
		}
		if err := finish(txn); err != nil {
			return 0, fmt.Errorf("prefs: %w", err)
		}
	}

	if l.update != nil {
		if err := eachItem(&e.Updates, func(n *yaml.Node) error {
			u, txn := l.update(id)
			return decodeAndFinish(n, u, txn)
		}); err != nil {
			return 0, fmt.Errorf("updates: %w", err)
		}
	}
	if err := eachItem(&e.Commands, func(n *yaml.Node) error {
		c, txn := l.command(id)
		return decodeAndFinish(n, c, txn)
	}); err != nil {
		return 0, fmt.Errorf("commands: %w", err)
	}

	for i := range e.Categories {
		cd, txn := s.AddCategoryData(id)
		*cd = e.Categories[i]
		if err := finish(txn); err != nil {
			return 0, fmt.Errorf("category data: %w", err)
		}
	}
	if err := addGeneric(s, id, e.Generic); err != nil {
		return 0, err
	}
	return id, nil
}

func addGeneric(s *store.MemoryStore, id simdata.ObjectID, data []simdata.GenericData) error {
	for i := range data {
		g, txn := s.AddGenericData(id)
		*g = data[i]
		if err := finish(txn); err != nil {
			return fmt.Errorf("generic data: %w", err)
		}
	}
	return nil
}

func isEmpty(n *yaml.Node) bool { return n.Kind == 0 }

func decode(n *yaml.Node, out any) error {
	if isEmpty(n) {
		return nil
	}
	return n.Decode(out)
}

func eachItem(n *yaml.Node, fn func(*yaml.Node) error) error {
	if isEmpty(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: want a list", n.Line)
	}
	for _, item := range n.Content {
		if err := fn(item); err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
	}
	return nil
}

func decodeAndFinish(n *yaml.Node, out any, txn *store.Transaction) error {
	if err := n.Decode(out); err != nil {
		txn.Release()
		return err
	}
	return finish(txn)
}

// finish commits and releases txn.
func finish(txn *store.Transaction) error {
	if txn == nil {
		return store.ErrNotFound
	}
	txn.Commit()
	txn.Release()
	return txn.Result().Err
}
