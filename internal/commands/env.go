package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/settle/internal/compare"
	"github.com/cleared-dev/settle/internal/config"
	"github.com/cleared-dev/settle/internal/description"
	"github.com/cleared-dev/settle/internal/importer"
	"github.com/cleared-dev/settle/internal/logging"
	"github.com/cleared-dev/settle/internal/model"
)

const configFileName = config.FileName

// env is what the snapshot commands share once config is resolved.
type env struct {
	cfg        *config.Config
	log        *logrus.Logger
	parser     importer.Parser
	encoding   importer.Encoding
	comparator *compare.Comparator
}

// loadConfig honours --config when given and otherwise tolerates a
// missing settle.yaml in the working directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOptional(configFileName)
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Level, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	aliases := cfg.Aliases()
	p := importer.DefaultRegistry(aliases).Get(cfg.Importer.Format)
	if p == nil {
		return nil, fmt.Errorf("unknown importer format %q", cfg.Importer.Format)
	}

	return &env{
		cfg:        cfg,
		log:        log,
		parser:     p,
		encoding:   importer.Encoding(cfg.Importer.Encoding),
		comparator: compare.New(description.NewParser(aliases)),
	}, nil
}

func (e *env) load(path string) (*model.Collection, error) {
	txns, err := importer.LoadFile(path, e.parser, e.encoding)
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{"file": path, "count": txns.Len()}).Debug("loaded snapshot")
	return txns, nil
}

func (e *env) diff(current, next *model.Collection) (*compare.Diff, error) {
	return e.comparator.Diff(current, next, compare.WithObserver(logging.NewObserver(e.log)))
}
