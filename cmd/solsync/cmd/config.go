package cmd

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configEnv  = "SOLSYNC_CONFIG"
	envPrefix  = "solsync"
	configName = "solsync"
)

// configKey maps a flag to its key in the configuration file, e.g. client-id to client_id
func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// initConfig reads in config file and ENV variables if set.
//
// Settings found there are defaults for the flags which are not set on the command line.
func initConfig() {
	if os.Getenv(configEnv) != "" {
		// Use config file from the env.
		viper.SetConfigFile(os.Getenv(configEnv))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.solsync")
		viper.AddConfigPath("/etc/solsync")
		viper.SetConfigName(configName)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}

	rootCmd.PersistentFlags().VisitAll(applyConfig)
}

func applyConfig(f *pflag.Flag) {
	key := configKey(f.Name)
	if f.Changed || !viper.IsSet(key) {
		return
	}
	raw := viper.Get(key)
	if f.Value.Type() == "stringToString" {
		if pairs, err := cast.ToStringMapStringE(raw); err == nil {
			raw = joinPairs(pairs)
		}
	}
	value, err := cast.ToStringE(raw)
	if err != nil {
		wrapFatalln("invalid setting for "+key, err)
		return
	}
	if err = f.Value.Set(value); err != nil {
		wrapFatalln("invalid setting for "+key, err)
	}
}

// joinPairs renders a map setting as the KEY=VALUE list expected by map flags
func joinPairs(pairs map[string]string) string {
	list := make([]string, 0, len(pairs))
	for k, v := range pairs {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)
	return strings.Join(list, ",")
}
