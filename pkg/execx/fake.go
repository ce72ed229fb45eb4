package execx

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrFakeMissing is returned by Fake for commands with no scripted output.
var ErrFakeMissing = errors.New("command not scripted")

// Fake is a scripted Runner for tests. Outputs are keyed by the full
// command line ("sinfo --version"); Missing lists binaries absent from
// PATH. Safe for concurrent use: probes may run in parallel.
type Fake struct {
	Outputs map[string]string
	Errs    map[string]error
	Missing map[string]bool

	mu    sync.Mutex
	calls []string
}

func (f *Fake) Output(ctx context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if err, ok := f.Errs[key]; ok {
		return f.Outputs[key], err
	}
	out, ok := f.Outputs[key]
	if !ok {
		return "", ErrFakeMissing
	}
	return out, nil
}

func (f *Fake) LookPath(name string) bool {
	return !f.Missing[name]
}

// Calls returns the command lines executed so far.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
