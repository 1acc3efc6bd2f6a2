package config

import (
	"errors"
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watch re-reads the config file whenever it changes and passes the
// decoded result to onChange. Invalid revisions are logged and ignored.
// It is a no-op when no config file was found at startup.
func Watch(cfg Config, onChange func(Config)) error {
	if onChange == nil {
		return errors.New("config watch callback is required")
	}
	if cfg.File() == "" {
		return nil
	}

	v := newViper()
	v.SetConfigFile(cfg.File())
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		updated, err := decode(v)
		if err != nil {
			log.Printf("[config] reload failed: %v", err)
			return
		}
		onChange(updated)
		log.Printf("[config] reloaded from %s", e.Name)
	})
	v.WatchConfig()
	return nil
}
