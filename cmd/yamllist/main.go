// yamllist renders the top-level sequence of a YAML-like document as one
// line of text.
//
// Usage:
//
//	# List a file, or stdin when no file is given
//	yamllist list doc.yaml
//	echo '- a\n- b' | yamllist list
//
//	# Look up a value by key path
//	yamllist get config.yaml servers/@0/host
//
//	# Re-emit a document as block YAML
//	yamllist emit doc.yaml
//
//	# Check every document under a directory
//	yamllist check --concurrency 8 docs/
//
//	# Re-list documents as they change
//	yamllist watch docs/
//
//	# Serve POST /v1/list over HTTP
//	yamllist serve --listen 127.0.0.1:8080
//
//	# Inspect and prune invocation history
//	yamllist history query --outcome error
//	yamllist history prune
package main

func main() {
	Execute()
}
