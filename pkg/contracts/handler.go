package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Worker is a background loop owned by the application: started before the
// server listens and stopped before it shuts down.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
