package main

import (
	"flag"
	"fmt"
	"os"

	"go-mod.ewintr.nl/delicious-copy/config"
	"go-mod.ewintr.nl/delicious-copy/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	conf, err := config.LoadHistory(*configPath)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	db, err := storage.NewClient(&storage.Config{
		Driver:     conf.History.Driver,
		PGHostname: conf.History.PGHostname,
		PGPort:     conf.History.PGPort,
		PGDBName:   conf.History.PGDBName,
		PGUser:     conf.History.PGUser,
		PGPassword: conf.History.PGPassword,
		SQLitePath: conf.History.SQLitePath,
	})
	if err != nil {
		fmt.Printf("could not open history db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	summary := GenerateSummary(storage.NewCliRepo(db))
	PrintMatrix(os.Stdout, summary)
}
