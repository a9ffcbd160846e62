package task

import "strings"

// template is a canned file/command manifest for a recognized request shape.
type template struct {
	Trigger  string // phrase matched case-insensitively against the description
	Language string // must equal the detected language
	Files    []FileSpec
	Commands []string
}

const pythonServerSource = `from http.server import HTTPServer, SimpleHTTPRequestHandler

PORT = 8000

if __name__ == "__main__":
    server = HTTPServer(("", PORT), SimpleHTTPRequestHandler)
    print(f"Serving on http://localhost:{PORT}")
    server.serve_forever()
`

const nodeServerSource = `const http = require("http");

const PORT = 8000;

const server = http.createServer((req, res) => {
  res.writeHead(200, { "Content-Type": "text/plain" });
  res.end("Hello from vibesh\n");
});

server.listen(PORT, () => console.log("Serving on http://localhost:" + PORT));
`

const htmlPageSource = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>New Page</title>
</head>
<body>
  <h1>Hello</h1>
</body>
</html>
`

const goCliSource = `package main

import (
	"flag"
	"fmt"
)

func main() {
	name := flag.String("name", "world", "who to greet")
	flag.Parse()
	fmt.Printf("hello, %s\n", *name)
}
`

const bashScriptSource = `#!/usr/bin/env bash
set -euo pipefail

echo "hello from vibesh"
`

// templateTable is the fixed set of (trigger phrase, language) manifests.
// At most one template applies; the first match in table order wins.
var templateTable = []template{
	{
		Trigger:  "web server",
		Language: "python",
		Files:    []FileSpec{{Path: "server.py", Content: pythonServerSource}},
		Commands: []string{"python server.py"},
	},
	{
		Trigger:  "web server",
		Language: "javascript",
		Files:    []FileSpec{{Path: "server.js", Content: nodeServerSource}},
		Commands: []string{"node server.js"},
	},
	{
		Trigger:  "web page",
		Language: "html",
		Files:    []FileSpec{{Path: "index.html", Content: htmlPageSource}},
	},
	{
		Trigger:  "website",
		Language: "html",
		Files:    []FileSpec{{Path: "index.html", Content: htmlPageSource}},
	},
	{
		Trigger:  "cli",
		Language: "go",
		Files:    []FileSpec{{Path: "main.go", Content: goCliSource}},
		Commands: []string{"go run main.go"},
	},
	{
		Trigger:  "script",
		Language: "bash",
		Files:    []FileSpec{{Path: "script.sh", Content: bashScriptSource}},
		Commands: []string{"./script.sh"},
	},
}

// matchTemplate returns the first template whose trigger phrase occurs in the
// description and whose language equals the detected language, or nil.
func matchTemplate(description, language string) *template {
	lower := strings.ToLower(description)
	for i := range templateTable {
		tpl := &templateTable[i]
		if tpl.Language == language && strings.Contains(lower, tpl.Trigger) {
			return tpl
		}
	}
	return nil
}
