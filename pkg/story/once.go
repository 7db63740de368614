package story

import (
	"sync"

	"github.com/aretw0/narrator/pkg/domain"
)

// Once holds a story that is loaded on first use and never reloaded.
type Once struct {
	once  sync.Once
	story *domain.Story
	err   error
}

// Get loads the story at path on the first call. Later calls return the same
// story and load error, whatever path they pass.
func (o *Once) Get(path string) (*domain.Story, error) {
	o.once.Do(func() {
		o.story, o.err = Load(path)
	})
	return o.story, o.err
}

var shared sync.Map // path -> *Once

// Shared returns the process-wide story for path. Each path is read at most
// once per process; later calls return the first result, load error included.
func Shared(path string) (*domain.Story, error) {
	o, _ := shared.LoadOrStore(path, &Once{})
	return o.(*Once).Get(path)
}
