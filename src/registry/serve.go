package registry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/go-containerregistry/pkg/registry"
)

// Handler returns an in-memory OCI Distribution Spec registry handler.
// Pushed content lives for the life of the process.
func Handler() http.Handler {
	return registry.New()
}

// Serve runs an in-memory registry on addr until ctx is canceled. It is
// a push target for local testing; pair it with an insecure entry in
// registries.conf.
func Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
