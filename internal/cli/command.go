package cli

import (
	"flag"

	"github.com/GustavoCaso/bookcatalog/internal/config"
	"github.com/GustavoCaso/bookcatalog/internal/logger"
	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

type Command interface {
	SetFlags(fset *flag.FlagSet)
	Description() string
	Run(conf *config.Config, s storage.Storage, logger *logger.Logger) error
}
