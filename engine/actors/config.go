package actors

import (
	"fmt"
	"os"
	"path/filepath"

	"fedid/engine/library"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// InitConfig sets up our Viper config object
func InitConfig(config *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	config.SetDefault("rootDir", filepath.Join(homeDir, "fedid")+"/")
	config.SetConfigType("yaml")
	config.SetConfigFile(config.GetString("rootDir") + "config.yaml")
	err = config.ReadInConfig()
	if err != nil {
		library.LogCLI(err.Error(), 4)
	}
	SetDefaults(config)
	// Create our working directory and config file if not exist
	initRootDir(config)
	touch(config.GetString("rootDir") + "config.yaml")
	err = config.WriteConfig()
	if err != nil {
		library.LogCLI(err.Error(), 1)
	}
	library.SetLogLevel(config.GetInt("logLevel"))
}

// SetDefaults registers every setting the engine reads, without touching the disk.
func SetDefaults(config *viper.Viper) {
	config.SetDefault("flatFileDir", "data/")
	config.SetDefault("journalFile", "journal.db")
	config.SetDefault("logLevel", 4)
	//replays of an already consumed action are accepted unless this is set
	config.SetDefault("replayProtection", false)
	config.SetDefault("doNotPublish", true)
	config.SetDefault("relays", []string{})
	config.SetDefault("notificationKind", 30400)
}

// ValidateConfig reports every invalid setting at once.
func ValidateConfig(config *viper.Viper) error {
	var result *multierror.Error
	if len(config.GetString("rootDir")) == 0 {
		result = multierror.Append(result, fmt.Errorf("rootDir must be set"))
	}
	if len(config.GetString("journalFile")) == 0 {
		result = multierror.Append(result, fmt.Errorf("journalFile must be set"))
	}
	if l := config.GetInt("logLevel"); l < 0 || l > 5 {
		result = multierror.Append(result, fmt.Errorf("logLevel %d is not between 0 and 5", l))
	}
	if !config.GetBool("doNotPublish") && len(config.GetStringSlice("relays")) == 0 {
		result = multierror.Append(result, fmt.Errorf("publishing is enabled but no relays are configured"))
	}
	if k := config.GetInt("notificationKind"); k < 0 || k > 65535 {
		result = multierror.Append(result, fmt.Errorf("notificationKind %d is out of range", k))
	}
	return result.ErrorOrNil()
}

func initRootDir(conf *viper.Viper) {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		err = os.MkdirAll(conf.GetString("rootDir"), 0755)
		if err != nil {
			library.LogCLI(err, 0)
		}
	}
}

func touch(name string) {
	f, err := os.OpenFile(name, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		library.LogCLI(err, 1)
		return
	}
	f.Close()
}

var conf = func() *viper.Viper {
	c := viper.New()
	SetDefaults(c)
	return c
}()

func MakeOrGetConfig() *viper.Viper {
	return conf
}

func SetConfig(config *viper.Viper) {
	conf = config
}
