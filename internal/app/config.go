package app

import (
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (FLOOR_ prefix), flags, or YAML config files.
type Config struct {
	OrdersDir   string `yaml:"orders_dir" default:"Orders" usage:"Directory holding Orders_MMDDYYYY.txt files" flag:"orders-dir"`
	TaxFile     string `yaml:"tax_file" default:"Data/Taxes.txt" usage:"Tax catalog file" flag:"tax-file"`
	ProductFile string `yaml:"product_file" default:"Data/Products.txt" usage:"Product catalog file" flag:"product-file"`
	ExportFile  string `yaml:"export_file" default:"Backup/DataExport.txt.gz" usage:"Destination of the data export" flag:"export-file"`
	AuditFile   string `yaml:"audit_file" default:"Audit/orders.jsonl" usage:"Order audit journal, empty to disable" flag:"audit-file"`
}

// LoadConfig loads configuration from defaults, YAML config files,
// environment variables and flags.
func LoadConfig() (*Config, error) {
	return loadConfig(os.Args[1:])
}

// loadConfig skips flag parsing when args is nil.
func loadConfig(args []string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "FLOOR",
		SkipFlags: args == nil,
		Args:      args,
		Files:     []string{"config.yaml", "/etc/floormaster/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.OrdersDir == "":
		return errors.New("orders directory is required: set FLOOR_ORDERS_DIR")
	case c.TaxFile == "":
		return errors.New("tax file is required: set FLOOR_TAX_FILE")
	case c.ProductFile == "":
		return errors.New("product file is required: set FLOOR_PRODUCT_FILE")
	}
	return nil
}
