package auth

import "sync"

// IdentityListener observes sign-in/sign-out events. The UI layer (and
// anything else in-process) uses this the way the hosted provider's
// auth-state subscription was used: to flip between authenticated and
// anonymous views.
type IdentityListener func(userID string, signedIn bool)

var (
	listenerMu sync.Mutex
	listeners  = make(map[int]IdentityListener)
	listenerID int
)

// OnIdentityChange registers a listener and returns its unsubscribe.
func OnIdentityChange(l IdentityListener) (unsubscribe func()) {
	listenerMu.Lock()
	defer listenerMu.Unlock()

	listenerID++
	id := listenerID
	listeners[id] = l

	return func() {
		listenerMu.Lock()
		defer listenerMu.Unlock()
		delete(listeners, id)
	}
}

func notifyIdentityChange(userID string, signedIn bool) {
	listenerMu.Lock()
	snapshot := make([]IdentityListener, 0, len(listeners))
	for _, l := range listeners {
		snapshot = append(snapshot, l)
	}
	listenerMu.Unlock()

	for _, l := range snapshot {
		l(userID, signedIn)
	}
}
