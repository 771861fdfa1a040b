// Package simdata defines the records held by the scenario data store:
// entity properties, preferences, time-stamped updates and commands, and
// the interpolators used to blend updates.
package simdata

import (
	"strings"

	"github.com/simdata/simstore/internal/core/ecs"
)

// ObjectID is the store-assigned identity of an entity.
type ObjectID = ecs.ObjectID

// ObjectType is a bit flag naming an entity kind. Flags combine for queries.
type ObjectType uint32

const (
	None            ObjectType = 0
	Platform        ObjectType = 1 << 0
	Beam            ObjectType = 1 << 1
	Gate            ObjectType = 1 << 2
	Laser           ObjectType = 1 << 3
	Projector       ObjectType = 1 << 4
	LobGroup        ObjectType = 1 << 5
	CustomRendering ObjectType = 1 << 6
	All             ObjectType = Platform | Beam | Gate | Laser | Projector | LobGroup | CustomRendering
)

// Types lists every concrete entity type in update order.
var Types = []ObjectType{Platform, Beam, Gate, Laser, Projector, LobGroup, CustomRendering}

var typeNames = map[ObjectType]string{
	None:            "none",
	Platform:        "platform",
	Beam:            "beam",
	Gate:            "gate",
	Laser:           "laser",
	Projector:       "projector",
	LobGroup:        "lobgroup",
	CustomRendering: "customrendering",
	All:             "all",
}

func (t ObjectType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	var parts []string
	for _, single := range Types {
		if t&single != 0 {
			parts = append(parts, typeNames[single])
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// Has reports whether every flag in o is set in t.
func (t ObjectType) Has(o ObjectType) bool { return o != None && t&o == o }

// ParseObjectType maps a name produced by String back to its type.
func ParseObjectType(s string) (ObjectType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s {
			return t, true
		}
	}
	return None, false
}

// ValidHost reports whether an entity of type child may be hosted by an
// entity of type host. None as host stands for the scenario itself.
func ValidHost(child, host ObjectType) bool {
	switch child {
	case Platform:
		return host == None
	case Beam, Laser, LobGroup:
		return host == Platform
	case Gate:
		return host == Beam
	case Projector, CustomRendering:
		return host == Platform || host == None
	}
	return false
}

// Ptr returns a pointer to a copy of v. It is the usual way to fill the
// optional fields of preference records.
func Ptr[T any](v T) *T { return &v }

// Record is implemented by every time-stamped record kept in a slice.
// Time -1 marks a static record that is valid at every time.
type Record interface {
	GetTime() float64
}

// StaticTime is the time value of a record with no time dependency.
const StaticTime = -1.0

// EntityPrefs is implemented by every per-type preferences record.
type EntityPrefs interface {
	GetCommonPrefs() *CommonPrefs
	MutableCommonPrefs() *CommonPrefs
}
