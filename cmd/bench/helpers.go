package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fulldump/inmemdb/bootstrap"
	"github.com/fulldump/inmemdb/configuration"
)

type JSON = map[string]any

var sessionSequence int64

func Parallel(workers int, f func(worker int)) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			f(worker)
		}(i)
	}
	wg.Wait()
}

func CreateSession(client *http.Client, base string) string {

	name := "bench-" + strconv.FormatInt(time.Now().UnixNano(), 10) +
		"-" + strconv.FormatInt(atomic.AddInt64(&sessionSequence, 1), 10)

	payload, _ := json.Marshal(JSON{"name": name})

	resp, err := client.Post(base+"/v1/sessions", "application/json", bytes.NewReader(payload))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		panic(fmt.Sprintf("create session: unexpected status %d: %s", resp.StatusCode, body))
	}

	return name
}

func NewClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     1024,
			MaxIdleConnsPerHost: 1024,
			MaxIdleConns:        1024,
		},
	}
}

func CreateServer(c *Config) (start, stop func()) {

	conf := configuration.Default()
	conf.CommitOnEnd = c.CommitOnEnd
	c.Base = "http://" + conf.HttpAddr

	return bootstrap.Bootstrap(&conf)
}

func waitReady(base string) {
	for i := 0; i < 100; i++ {
		resp, err := http.Get(base + "/release")
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	panic("server not ready at " + base)
}

func report(n int64, t0 time.Time) {
	took := time.Since(t0)
	fmt.Println("sent:", n)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f commands/sec\n", float64(n)/took.Seconds())
}
