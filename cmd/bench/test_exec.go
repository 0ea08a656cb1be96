package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

// TestExec streams commands through one exec request per worker, each worker
// on its own session.
func TestExec(c Config) {

	client := NewClient()

	pending := c.N

	t0 := time.Now()
	Parallel(c.Workers, func(worker int) {

		session := CreateSession(client, c.Base)

		r, w := io.Pipe()
		wb := bufio.NewWriterSize(w, 1*1024*1024)
		sentCh := make(chan int64, 1)

		go func() {
			sent := int64(0)
			defer func() { sentCh <- sent }()
			depth := 0
			for {
				n := atomic.AddInt64(&pending, -1)
				if n < 0 {
					break
				}
				if c.BeginEvery > 0 && n%c.BeginEvery == 0 {
					if depth > 0 && n%(2*c.BeginEvery) == 0 {
						fmt.Fprint(wb, "{\"command\":\"COMMIT\"}\n")
						depth = 0
					} else {
						fmt.Fprint(wb, "{\"command\":\"BEGIN\"}\n")
						depth++
					}
					sent++
					continue
				}
				sent++
				key := n % c.Keys
				switch n % 4 {
				case 0:
					fmt.Fprintf(wb, "{\"command\":\"GET k%d\"}\n", key)
				case 1:
					fmt.Fprintf(wb, "{\"command\":\"NUMEQUALTO v%d\"}\n", key%10)
				case 2:
					fmt.Fprintf(wb, "{\"command\":\"UNSET k%d\"}\n", key)
				default:
					fmt.Fprintf(wb, "{\"command\":\"SET k%d v%d\"}\n", key, n%10)
				}
			}
			fmt.Fprint(wb, "{\"command\":\"END\"}\n")
			sent++
			wb.Flush()
			w.Close()
		}()

		req, err := http.NewRequest("POST", c.Base+"/v1/sessions/"+session+":exec", r)
		if err != nil {
			fmt.Println("ERROR: new request:", err.Error())
			os.Exit(3)
		}

		resp, err := client.Do(req)
		if err != nil {
			fmt.Println("ERROR: do request:", err.Error())
			os.Exit(4)
		}
		defer resp.Body.Close()

		received := int64(0)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			received++
		}
		if err := scanner.Err(); err != nil {
			fmt.Println("ERROR: read results:", err.Error())
			os.Exit(5)
		}
		if sent := <-sentCh; received != sent {
			fmt.Printf("ERROR: worker %d sent %d commands, received %d results\n", worker, sent, received)
			os.Exit(6)
		}
	})

	report(c.N, t0)
}
