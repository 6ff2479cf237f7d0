package storage

var migrations = []string{
	`CREATE TABLE outcome (
  	run_id TEXT NOT NULL,
  	idx INTEGER NOT NULL,
  	url TEXT NOT NULL,
  	author TEXT NOT NULL,
  	status TEXT NOT NULL,
  	tags TEXT,
  	processed TIMESTAMP,
  	PRIMARY KEY (run_id, idx)
	)`,
	`CREATE INDEX outcome_url ON outcome (url)`,
}
