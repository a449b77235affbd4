package fixtures

import "fmt"

// PackageJSON returns a canonical package.json carrying version.
func PackageJSON(version string) []byte {
	return fmt.Appendf(nil, `{
  "name": "widget",
  "version": %q,
  "private": true,
  "scripts": {
    "build": "tsc -p .",
    "test": "jest"
  },
  "files": [
    "dist"
  ],
  "engines": {}
}
`, version)
}

// ChartYAML returns a Helm chart manifest carrying version.
func ChartYAML(version string) []byte {
	return fmt.Appendf(nil, `# Chart for the widget service
apiVersion: v2
name: widget
version: %s
appVersion: "2.0"
dependencies:
  - name: redis
    version: 17.0.0
`, version)
}
