package zenmill

import (
	"path"
	"strings"
)

// localPath resolves file against the directory of parent. Paths
// beginning with '/' resolve from the template root instead, with the
// leading slashes stripped. A result that ascends above the root fails
// with OutOfScopeError.
func localPath(parent, file string) (string, error) {
	var res string
	if strings.HasPrefix(file, "/") {
		res = strings.TrimLeft(path.Clean(file), "/")
	} else {
		res = path.Join(path.Dir(parent), file)
	}
	if res == ".." || strings.HasPrefix(res, "../") {
		return "", &OutOfScopeError{Path: res}
	}
	return res, nil
}

// rootPath normalizes the path handed to Compile. The root has no
// parent, so a relative path resolves against the root directory.
func rootPath(p string) (string, error) {
	return localPath("", p)
}
