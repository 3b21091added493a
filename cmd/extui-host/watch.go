package main

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// watchPort re-delivers osc_port whenever the config file is written. Other
// keys need a restart.
func watchPort(v *viper.Viper, deliver func(port uint16)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		port := v.GetInt("osc_port")
		if port < 0 || port > 0xffff {
			logger.Warn("ignoring osc_port from changed config", "file", e.Name, "osc_port", port)
			return
		}
		logger.Info("config changed, delivering osc port", "file", e.Name, "port", port)
		deliver(uint16(port))
	})
	v.WatchConfig()
}
