package testserver

import "time"

// Token is the Sentry API token the fake API accepts.
const Token = "test-sentry-token"

// Now is the fixed clock the stack runs on.
var Now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// Paths of the canned resources.
const (
	ProjectsPath      = "/api/0/projects/"
	WebProjectPath    = "/api/0/projects/acme/web-frontend/"
	WebIssuesPath     = "/api/0/projects/acme/web-frontend/issues/"
	WebStatsPath      = "/api/0/projects/acme/web-frontend/stats/"
	WebReleasesPath   = "/api/0/projects/acme/web-frontend/releases/"
	WorkerProjectPath = "/api/0/projects/acme/api-worker/"
	WorkerIssuesPath  = "/api/0/projects/acme/api-worker/issues/"
	IssuePath         = "/api/0/issues/101/"
	IssueLatestPath   = "/api/0/issues/101/events/latest/"
	IssueEventsPath   = "/api/0/issues/101/events/"
	IssueNotesPath    = "/api/0/issues/101/notes/"
	IssueHashesPath   = "/api/0/issues/101/hashes/"
	CompletionPath    = "/v1/chat/completions"
)

// DefaultFixtures maps request paths to response bodies.
func DefaultFixtures() map[string]string {
	return map[string]string{
		ProjectsPath: `[
			{"slug":"web-frontend","name":"Web Frontend","platform":"javascript"},
			{"slug":"api-gateway","name":"API Gateway","platform":"go"},
			{"slug":"api-worker","name":"API Worker","platform":"python"}
		]`,
		WebProjectPath: `{
			"slug":"web-frontend","name":"Web Frontend","status":"active",
			"platform":"javascript","latestRelease":{"version":"2.4.0"}
		}`,
		WebIssuesPath: `[
			{"id":"101","shortId":"WEB-1","title":"TypeError: x is undefined","level":"error",
			 "count":"57","userCount":12,"lastSeen":"2024-05-01T11:50:00Z"},
			{"id":"102","shortId":"WEB-2","title":"ChunkLoadError","level":"warning",
			 "count":"4","userCount":3,"lastSeen":"2024-05-01T09:00:00Z"}
		]`,
		WebStatsPath:      `[[1714557600,12],[1714561200,30]]`,
		WebReleasesPath:   `{"data":[{"version":"web@2.4.0","shortVersion":"2.4.0","dateCreated":"2024-04-30T10:00:00Z","newGroups":2}]}`,
		WorkerProjectPath: `{"slug":"api-worker","name":"API Worker","status":"active","platform":"python"}`,
		WorkerIssuesPath:  `[]`,
		IssuePath: `{
			"id":"101","shortId":"WEB-1","title":"TypeError: x is undefined","culprit":"app/render.js",
			"level":"error","status":"unresolved","type":"error","priority":"high",
			"count":"57","userCount":12,"numComments":1,
			"firstSeen":"2024-04-20T08:00:00Z","lastSeen":"2024-05-01T11:50:00Z",
			"permalink":"https://sentry.io/organizations/acme/issues/101/",
			"project":{"slug":"web-frontend","name":"Web Frontend"},
			"metadata":{"filename":"app/render.js","function":"render","type":"TypeError"},
			"stats":{
				"24h":[[1714546800,3],[1714550400,0],[1714554000,9],[1714557600,9]],
				"30d":[[1713916800,20],[1714003200,37]]
			}
		}`,
		IssueLatestPath: `{
			"id":"abc123","eventID":"abc123","message":"x is undefined","platform":"javascript",
			"environment":"production","release":{"version":"web@2.4.0"},
			"entries":[
				{"type":"exception","data":{"values":[{"type":"TypeError","value":"x is undefined"}]}},
				{"type":"user","data":{"id":"u1","username":"ada","email":"ada@example.com","ip_address":"10.0.0.1"}}
			],
			"contexts":{"browser":{"name":"Chrome","version":"124"},"trace":{"trace_id":"t-1"}}
		}`,
		IssueEventsPath: `[{"id":"e1"},{"id":"e2"},{"id":"e3"}]`,
		IssueNotesPath:  `[{"id":"n1","data":{"text":"looking"}}]`,
		IssueHashesPath: `[{"id":"h1"},{"id":"h2"}]`,
	}
}
