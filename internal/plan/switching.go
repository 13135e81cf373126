package plan

import "github.com/dicore-project/dicore/internal/key"

// switchingProvider assigns deterministic, insertion-order ids to bindings
// that will be dispatched from the one switching-provider method generated
// per component: a dispatch on an integer id to the appropriate create
// call. Ids are deterministic so a second planning pass over the same graph
// assigns identical ones.
type switchingProvider struct {
	used bool
	ids  map[key.Key]int
	next int
}

func newSwitchingProvider() *switchingProvider {
	return &switchingProvider{ids: map[key.Key]int{}}
}

func (s *switchingProvider) assign(k key.Key) int {
	s.used = true
	if id, ok := s.ids[k]; ok {
		return id
	}
	id := s.next
	s.ids[k] = id
	s.next++
	return id
}
