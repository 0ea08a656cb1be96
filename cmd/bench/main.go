package main

import (
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test        string `usage:"name of the test: ALL | EXEC | SET"`
	Base        string `usage:"base URL, empty starts an embedded server"`
	N           int64  `usage:"number of commands"`
	Workers     int    `usage:"number of workers"`
	Keys        int64  `usage:"number of distinct keys"`
	BeginEvery  int64  `usage:"open a transaction every n commands, 0 disables transactions"`
	CommitOnEnd bool   `usage:"embedded server commits open transactions on END"`
}

func main() {

	c := Config{
		Test:       "exec",
		Base:       "",
		N:          1_000_000,
		Workers:    16,
		Keys:       1000,
		BeginEvery: 100,
	}
	goconfig.Read(&c)

	if c.Keys <= 0 {
		c.Keys = 1
	}

	if c.Base == "" {
		start, stop := CreateServer(&c)
		defer stop()
		go start()
		waitReady(c.Base)
	}

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestExec(c)
		TestSet(c)
	case "EXEC":
		TestExec(c)
	case "SET":
		TestSet(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
