package main

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

/*

frame recorder section.
streams frame snapshots into an sqlite file for offline analysis.
only 1 worker is useful since sqlite allows only 1 writer at a time.

*/

const schema = `
CREATE TABLE bodies (
	frame 	INTEGER,
	id 		INTEGER, -- body index within the frame
	x 		REAL,
	y 		REAL,
	vx 		REAL,
	vy 		REAL,
	mass 	REAL);
`

const indices = `
CREATE INDEX idx_frame ON bodies (frame, id);
CREATE INDEX idx_mass ON bodies (mass);
`

const insert = `INSERT INTO bodies VALUES (?, ?, ?, ?, ?, ?, ?);`

// opens and initializes the recorder db in filename. refuses to clobber
// an existing file.
func openRecorder(filename string) (*sql.DB, error) {
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("%s exists", filename)
	}
	db, err := sql.Open("sqlite3", "file:"+filename+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// createIndices runs the create index statements. deferred until the
// recording is complete; inserting into an indexed table is slower.
func createIndices(db *sql.DB) error {
	_, err := db.Exec(indices)
	return err
}

// frameToSqlite drains the frame stream into db, one transaction per
// frame.
func frameToSqlite(db *sql.DB, wg *sync.WaitGroup, ch chan *frameJob) {
	defer wg.Done()

	stmt, err := db.Prepare(insert)
	if err != nil {
		panic(err)
	}

	for job := range ch {
		tx, err := db.Begin()
		if err != nil {
			panic(err)
		}

		for id, b := range job.Bodies {
			_, err = tx.Stmt(stmt).Exec(
				job.Frame,
				id,
				b.pos.X(),
				b.pos.Y(),
				b.vel.X(),
				b.vel.Y(),
				b.mass)
			if err != nil {
				break
			}
		}

		if err != nil {
			tx.Rollback()
			panic(err)
		}
		tx.Commit()
	}
}
