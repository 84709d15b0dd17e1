package assets

import "sync"

// Registry is the shared asset URL set. The rewrite phase and the CSS
// post-processing phase both add to it, possibly while a drain round is in
// flight, so all access is mutex guarded.
type Registry struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	pending []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Add registers an asset URL. It reports whether the URL was new; a URL is
// downloaded at most once per run no matter how many pages reference it.
func (r *Registry) Add(sourceURL string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[sourceURL]; ok {
		return false
	}
	r.seen[sourceURL] = struct{}{}
	r.pending = append(r.pending, sourceURL)
	return true
}

// AddAll registers a batch of asset URLs.
func (r *Registry) AddAll(sourceURLs []string) {
	for _, u := range sourceURLs {
		r.Add(u)
	}
}

// TakePending returns the URLs registered since the last call and clears
// the pending list. The drain loop calls this once per round; an empty
// result means the set is exhausted.
func (r *Registry) TakePending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := r.pending
	r.pending = nil
	return batch
}

// Size returns the number of distinct asset URLs ever registered.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.seen)
}
