/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// EntityTypeGang tags gang items in backends that share a table between
// several kinds of records.
const EntityTypeGang = "Gang"

// StoredGang is the persisted form of a gang. Members are kept as UUID
// strings in join order; the first member leads the gang.
type StoredGang struct {
	Name       string   `yaml:"-" json:"name" dynamodbav:"Name" validate:"required,gangname"`
	Members    []string `yaml:"members" json:"members" dynamodbav:"Members" validate:"dive,uuid"`
	PowerLevel float32  `yaml:"powerLevel" json:"powerLevel" dynamodbav:"PowerLevel"`
}

// Clone returns a deep copy of g.
func (g StoredGang) Clone() StoredGang {
	members := make([]string, len(g.Members))
	copy(members, g.Members)
	return StoredGang{Name: g.Name, Members: members, PowerLevel: g.PowerLevel}
}

// CloneAll deep-copies a snapshot.
func CloneAll(gangs []StoredGang) []StoredGang {
	out := make([]StoredGang, len(gangs))
	for i, g := range gangs {
		out[i] = g.Clone()
	}
	return out
}
