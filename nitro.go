/*
Package nitro is a library for reading and writing the Nitro tile-graphics
container formats: NCLR palettes, NCGR character graphics, NCER cell banks
and NSCR screens.

The format codecs live in their own sub-packages; this package provides the
asset database and directory scanner built on top of them.
*/
package nitro

import "log"

// Nitro ties the asset database to a logger.
type Nitro struct {
	db     *AssetDB
	logger *log.Logger
}

// New opens (creating if necessary) the asset database at file.
func New(file string, logger *log.Logger) (*Nitro, error) {
	db, err := NewAssetDB(file)
	if err != nil {
		return nil, err
	}
	return &Nitro{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the underlying asset database.
func (n *Nitro) Close() error {
	return n.db.Close()
}
