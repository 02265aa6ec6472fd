// Package database handles the optional database connection used by the upload journal.
//
// It wraps GORM to configure either a MySQL connection or a pure-Go SQLite database
// based on the application's configuration. An empty driver disables the database
// and Connect returns ErrDisabled.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logg.Warn("Upload journal disabled", zap.Error(err))
//	}
package database
