package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/buxgalter/internal/sqlite"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize buxgalter storage",
		Long: `Create the configuration and data directories, write a default
config.yaml and initialize the store. An empty store is filled with demo
data unless skip_seed is set in config.yaml.`,
		Args: args(cobra.NoArgs),
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	store := sqlite.NewBackend()
	if err := store.Attach(a.settings.store); err != nil {
		return systemError(err)
	}
	if err := store.Detach(); err != nil {
		return systemError(err)
	}
	a.logger.Info("storage initialized", zap.String("data_dir", a.settings.store.DataDir))

	if a.flags.jsonMode {
		return a.printer().JSON(map[string]string{
			"config_dir": a.settings.configDir,
			"data_dir":   a.settings.store.DataDir,
		})
	}
	p := a.printer()
	if err := p.Line("buxgalter initialized"); err != nil {
		return err
	}
	if err := p.Line("  config: %s", a.settings.configDir); err != nil {
		return err
	}
	return p.Line("  data:   %s", a.settings.store.DataDir)
}
