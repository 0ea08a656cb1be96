package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"
)

// TestSet sends one request per SET, all workers sharing a session.
func TestSet(c Config) {

	client := NewClient()
	session := CreateSession(client, c.Base)

	pending := c.N

	go func() {
		for {
			fmt.Println("pending:", atomic.LoadInt64(&pending))
			time.Sleep(1 * time.Second)
		}
	}()

	t0 := time.Now()
	Parallel(c.Workers, func(worker int) {
		for {
			n := atomic.AddInt64(&pending, -1)
			if n < 0 {
				return
			}

			payload, _ := json.Marshal(JSON{
				"key":   "k" + strconv.FormatInt(n%c.Keys, 10),
				"value": strconv.FormatInt(n%10, 10),
			})
			resp, err := client.Post(c.Base+"/v1/sessions/"+session+":set", "application/json", bytes.NewReader(payload))
			if err != nil {
				fmt.Println("ERROR: do request:", err.Error())
				os.Exit(4)
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				fmt.Println("ERROR: unexpected status:", resp.StatusCode)
				os.Exit(5)
			}
		}
	})

	report(c.N, t0)
}
