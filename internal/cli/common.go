package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/jobsync/internal/metrics"
	"github.com/roach88/jobsync/internal/reconcile"
	"github.com/roach88/jobsync/internal/store"
)

// openStore opens the configured database. Failures are reported through f.
func (o *RootOptions) openStore(f *OutputFormatter) (*store.Store, error) {
	path := o.Config.Database.Path
	f.VerboseLog("Opening database %s", path)

	st, err := store.Open(path)
	if err != nil {
		_ = f.Error(ErrCodeStore, err.Error(), map[string]string{"path": path})
		exitErr := WrapExitError(ExitCommandError, "failed to open database", err)
		exitErr.reported = true
		return nil, exitErr
	}
	return st, nil
}

// closeStore closes st, logging instead of failing the command.
func (o *RootOptions) closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		o.Log.Error().Err(err).Msg("error closing database")
	}
}

// newPlanner wires a planner over st. reg may be nil.
func (o *RootOptions) newPlanner(cmd *cobra.Command, st *store.Store, reg prometheus.Registerer) *reconcile.Planner {
	m := metrics.Discard()
	if reg != nil {
		m = metrics.New(reg)
	}
	return reconcile.New(st, st,
		reconcile.WithAccounts(st),
		reconcile.WithLogger(o.Log.With("command", cmd.Name())),
		reconcile.WithMetrics(m),
		reconcile.WithWorkers(o.Config.Plan.Workers),
	)
}
