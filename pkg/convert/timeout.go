package convert

import (
	"fmt"
	"sync"
	"time"

	"github.com/scadview/csg/pkg/mesh"
)

// convResult is the internal type used to pass conversion results through
// channels.
type convResult struct {
	mesh *mesh.Mesh
	err  error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the conversion exceeds the budget. It uses a generation counter to
// discard stale results from previous conversions.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan convResult,
	d time.Duration,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*mesh.Mesh, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			// A newer conversion was started; discard this result.
			return nil, fmt.Errorf("conversion superseded by newer request")
		}
		return res.mesh, res.err

	case <-timer.C:
		return nil, fmt.Errorf("conversion timeout after %s", d)
	}
}
