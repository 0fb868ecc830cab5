package store

// Observation is the stored form of one reported production step.
type Observation struct {
	Label string
	Order int
	Value int
	Start bool
}

type Store interface {
	Save([]Observation) error
	Observations(label string) ([]Observation, error)
}
