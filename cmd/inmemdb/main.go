package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/inmemdb/bootstrap"
	"github.com/fulldump/inmemdb/configuration"
	"github.com/fulldump/inmemdb/console"
	"github.com/fulldump/inmemdb/engine"
)

var banner = `
 _____       __  __               _____  ____  
|_   _|     |  \/  |             |  __ \|  _ \ 
  | |  _ __ | \  / | ___ _ __ ___| |  | | |_) |
  | | | '_ \| |\/| |/ _ \ '_ ' _ \ |  | |  _ < 
 _| |_| | | | |  | |  __/ | | | | | |__| | |_) |
|_____|_| |_|_|  |_|\___|_| |_| |_|_____/|____/ 
                          version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	switch c.Mode {
	case configuration.ModeHttp:
		start, _ := bootstrap.Bootstrap(&c)
		start()
	case configuration.ModeConsole:
		err := runConsole(&c)
		if err != nil {
			log.Println("ERROR:", err.Error())
			os.Exit(1)
		}
	default:
		log.Fatalf("Unknown mode '%s'", c.Mode)
	}
}

func runConsole(c *configuration.Configuration) error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	in := console.NewScanner(os.Stdin)
	if c.Interactive {
		rl, closer, err := console.NewReadline("> ", c.HistoryFile)
		if err != nil {
			return err
		}
		defer closer.Close()
		in = rl
	}

	n, err := console.Run(ctx, in, os.Stdout, engine.New(), console.Options{
		CommitOnEnd: c.CommitOnEnd,
	})
	if n > 0 {
		action := "abandoned"
		if c.CommitOnEnd {
			action = "committed"
		}
		log.Printf("%d open transactions %s\n", n, action)
	}

	return err
}
