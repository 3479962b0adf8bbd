package tui

import (
	"sync"

	"github.com/cdrpl/missions/internal/app"
)

// notifier collects what the controllers report while a command runs. The
// model drains it when the command's message arrives.
type notifier struct {
	mu     sync.Mutex
	alerts []string
	route  app.Route
}

func (n *notifier) Navigate(route app.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.route = route
}

func (n *notifier) Alert(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.alerts = append(n.alerts, msg)
}

// drain returns and forgets the pending alerts and route.
func (n *notifier) drain() ([]string, app.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()

	alerts, route := n.alerts, n.route
	n.alerts, n.route = nil, ""

	return alerts, route
}
