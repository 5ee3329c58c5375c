package villa

import "time"

type Created struct {
	VillaID ID
	Name    string
	At      time.Time
}

func (e Created) EventName() string     { return "villa.created" }
func (e Created) AggregateID() string   { return string(e.VillaID) }
func (e Created) OccurredAt() time.Time { return e.At }

type Updated struct {
	VillaID ID
	At      time.Time
}

func (e Updated) EventName() string     { return "villa.updated" }
func (e Updated) AggregateID() string   { return string(e.VillaID) }
func (e Updated) OccurredAt() time.Time { return e.At }

type Retired struct {
	VillaID ID
	At      time.Time
}

func (e Retired) EventName() string     { return "villa.retired" }
func (e Retired) AggregateID() string   { return string(e.VillaID) }
func (e Retired) OccurredAt() time.Time { return e.At }
