package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// Acceptance exercises the sessions api end to end. apiRequest must prefix
// the path with the api version.
func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Create session", func(a *biff.A) {
		resp := apiRequest("POST", "/sessions").
			WithBodyJson(JSON{
				"name": "my-session",
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		body := resp.BodyJson().(JSON)
		biff.AssertEqual(body["name"], "my-session")
		biff.AssertEqual(body["depth"], json.Number("0"))
		biff.AssertEqual(body["keys"], json.Number("0"))
		biff.AssertNotEqual(body["id"], "")

		a.Alternative("Duplicated session", func(a *biff.A) {
			resp := apiRequest("POST", "/sessions").
				WithBodyJson(JSON{
					"name": "my-session",
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Retrieve session by name and by id", func(a *biff.A) {
			resp := apiRequest("GET", "/sessions/my-session").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJson().(JSON)["id"], body["id"])

			resp = apiRequest("GET", "/sessions/"+body["id"].(string)).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJson().(JSON)["name"], "my-session")
		})

		a.Alternative("List sessions", func(a *biff.A) {
			resp := apiRequest("GET", "/sessions").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			list := resp.BodyJson().([]interface{})
			biff.AssertEqual(len(list), 1)
			biff.AssertEqual(list[0].(JSON)["name"], "my-session")
		})

		a.Alternative("Set and get", func(a *biff.A) {
			resp := apiRequest("POST", "/sessions/my-session:set").
				WithBodyJson(JSON{"key": "a", "value": "10"}).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

			resp = apiRequest("POST", "/sessions/my-session:get").
				WithBodyJson(JSON{"key": "a"}).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"key":   "a",
				"value": "10",
				"found": true,
			})

			a.Alternative("Count values", func(a *biff.A) {
				apiRequest("POST", "/sessions/my-session:set").
					WithBodyJson(JSON{"key": "b", "value": "10"}).Do()

				resp := apiRequest("POST", "/sessions/my-session:numEqualTo").
					WithBodyJson(JSON{"value": "10"}).Do()
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"value": "10",
					"count": 2,
				})
			})

			a.Alternative("Unset", func(a *biff.A) {
				resp := apiRequest("POST", "/sessions/my-session:unset").
					WithBodyJson(JSON{"key": "a"}).Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

				resp = apiRequest("POST", "/sessions/my-session:get").
					WithBodyJson(JSON{"key": "a"}).Do()
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"key":   "a",
					"value": nil,
					"found": false,
				})
			})

			a.Alternative("Rollback a transaction", func(a *biff.A) {
				resp := apiRequest("POST", "/sessions/my-session:begin").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"depth": 1})

				apiRequest("POST", "/sessions/my-session:set").
					WithBodyJson(JSON{"key": "a", "value": "20"}).Do()

				resp = apiRequest("POST", "/sessions/my-session:get").
					WithBodyJson(JSON{"key": "a"}).Do()
				biff.AssertEqual(resp.BodyJson().(JSON)["value"], "20")

				resp = apiRequest("POST", "/sessions/my-session:rollback").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"depth": 0})

				resp = apiRequest("POST", "/sessions/my-session:get").
					WithBodyJson(JSON{"key": "a"}).Do()
				biff.AssertEqual(resp.BodyJson().(JSON)["value"], "10")
			})

			a.Alternative("Commit nested transactions", func(a *biff.A) {
				apiRequest("POST", "/sessions/my-session:begin").Do()
				apiRequest("POST", "/sessions/my-session:begin").Do()
				apiRequest("POST", "/sessions/my-session:set").
					WithBodyJson(JSON{"key": "a", "value": "30"}).Do()

				resp := apiRequest("POST", "/sessions/my-session:commit").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{"depth": 0})

				resp = apiRequest("POST", "/sessions/my-session:stats").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"keys":         1,
					"depth":        0,
					"history_keys": 0,
					"values":       1,
				})
			})
		})

		a.Alternative("Set without value", func(a *biff.A) {
			resp := apiRequest("POST", "/sessions/my-session:set").
				WithBodyJson(JSON{"key": "a"}).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Commit without transaction", func(a *biff.A) {
			resp := apiRequest("POST", "/sessions/my-session:commit").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
			biff.AssertEqual(resp.BodyJson().(JSON)["error"].(JSON)["description"], "NO TRANSACTION")
		})

		a.Alternative("Rollback without transaction", func(a *biff.A) {
			resp := apiRequest("POST", "/sessions/my-session:rollback").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Find sessions", func(a *biff.A) {
			apiRequest("POST", "/sessions").WithBodyJson(JSON{"name": "other"}).Do()
			apiRequest("POST", "/sessions/other:begin").Do()

			resp := apiRequest("POST", "/sessions:find").
				WithBodyJson(JSON{
					"filter": JSON{"depth": JSON{"$gt": 0}},
				}).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			list := resp.BodyJson().([]interface{})
			biff.AssertEqual(len(list), 1)
			biff.AssertEqual(list[0].(JSON)["name"], "other")
		})

		a.Alternative("Exec commands", func(a *biff.A) {
			body := strings.Join([]string{
				`{"command":"SET a 10"}`,
				`{"command":"BEGIN"}`,
				`{"command":"SET a 20"}`,
				`{"command":"GET a"}`,
				`{"command":"ROLLBACK"}`,
				`{"command":"GET a"}`,
				`{"command":"FOO"}`,
				`{"command":"COMMIT"}`,
			}, "\n")
			resp := apiRequest("POST", "/sessions/my-session:exec").
				WithBodyString(body).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			expected := strings.Join([]string{
				`{"command":"SET a 10","output":""}`,
				`{"command":"BEGIN","output":""}`,
				`{"command":"SET a 20","output":""}`,
				`{"command":"GET a","output":"20"}`,
				`{"command":"ROLLBACK","output":""}`,
				`{"command":"GET a","output":"10"}`,
				`{"command":"FOO","output":"Command not found"}`,
				`{"command":"COMMIT","output":"NO TRANSACTION"}`,
			}, "\n") + "\n"
			biff.AssertEqual(resp.BodyString(), expected)

			a.Alternative("Exec END finishes the session", func(a *biff.A) {
				resp := apiRequest("POST", "/sessions/my-session:exec").
					WithBodyString(`{"command":"END"}` + "\n" + `{"command":"GET a"}`).Do()
				biff.AssertEqual(resp.BodyString(), `{"command":"END","output":""}`+"\n")

				resp = apiRequest("GET", "/sessions/my-session").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Exec a long stream", func(a *biff.A) {
			lines := []string{}
			for i := 0; i < 20; i++ {
				lines = append(lines, fmt.Sprintf(`{"command":"SET k%d v"}`, i))
			}
			lines = append(lines, `{"command":"NUMEQUALTO v"}`)

			resp := apiRequest("POST", "/sessions/my-session:exec").
				WithBodyString(strings.Join(lines, "\n")).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			results := strings.Split(strings.TrimSpace(resp.BodyString()), "\n")
			biff.AssertEqual(len(results), 21)
			biff.AssertEqual(results[20], `{"command":"NUMEQUALTO v","output":"20"}`)
		})

		a.Alternative("Exec malformed command after results", func(a *biff.A) {
			resp := apiRequest("POST", "/sessions/my-session:exec").
				WithBodyString(`{"command":"SET a 1"}` + "\n" + `{oops}` + "\n" + `{"command":"GET a"}`).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			results := strings.Split(strings.TrimSpace(resp.BodyString()), "\n")
			biff.AssertEqual(len(results), 2)
			biff.AssertEqual(results[0], `{"command":"SET a 1","output":""}`)

			last := JSON{}
			biff.AssertNil(json.Unmarshal([]byte(results[1]), &last))
			biff.AssertEqual(last["command"], "")
			biff.AssertTrue(strings.HasPrefix(last["output"].(string), "ERROR: read command"))
		})

		a.Alternative("Exec malformed first command", func(a *biff.A) {
			resp := apiRequest("POST", "/sessions/my-session:exec").
				WithBodyString(`{oops}`).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			_, hasError := resp.BodyJson().(JSON)["error"]
			biff.AssertTrue(hasError)
		})

		a.Alternative("End session", func(a *biff.A) {
			apiRequest("POST", "/sessions/my-session:begin").Do()

			resp := apiRequest("POST", "/sessions/my-session:end").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"finalized": 1,
				"committed": false,
			})

			a.Alternative("Get ended session", func(a *biff.A) {
				resp := apiRequest("GET", "/sessions/my-session").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})
	})

	a.Alternative("Session not found", func(a *biff.A) {
		resp := apiRequest("POST", "/sessions/nobody:get").
			WithBodyJson(JSON{"key": "a"}).Do()
		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})
}
