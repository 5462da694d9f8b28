package ftpserver

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// errTraversal is returned by resolvePath when the argument tries to escape
// the session's current directory (spec §3 ServerRoot, §8 sandboxing).
var errTraversal = fmt.Errorf("path escapes the server root")

// resolvePath joins currentDir with arg the way spec §4.F describes: the
// platform separator is irrelevant (the tree is always presented with
// forward slashes), and any ".." segment is rejected before any filesystem
// call is made — the afero.BasePathFs underneath is a second, independent
// line of defense, not the only one.
func resolvePath(currentDir, arg string) (string, error) {
	if strings.Contains(arg, "..") {
		return "", errTraversal
	}

	var joined string
	if arg == "" {
		joined = currentDir
	} else if strings.HasPrefix(arg, "/") {
		joined = arg
	} else {
		joined = currentDir + "/" + arg
	}

	clean := path.Clean("/" + joined)

	if clean != "/" && strings.Contains(clean, "..") {
		return "", errTraversal
	}

	return clean, nil
}

// listingEntry renders one LIST/NLST line in the fixed format spec §3
// mandates: the type is "d" or "-", the perms are always "rw-r--r--" (the
// server doesn't model real permission bits), owner/group are the literal
// words "owner"/"group".
func listingEntry(fi os.FileInfo) string {
	kind := byte('-')
	if fi.IsDir() {
		kind = 'd'
	}

	return fmt.Sprintf(
		"%c%s 1 owner group %d %s %s",
		kind,
		"rw-r--r--",
		fi.Size(),
		fi.ModTime().UTC().Format("2006-01-02 15:04:05.000"),
		fi.Name(),
	)
}

// readDir lists dir through fs, skipping "." and "..", sorted by name so
// output is deterministic across afero backends.
func readDir(fs afero.Fs, dir string) ([]os.FileInfo, error) {
	f, err := fs.Open(dir)
	if err != nil {
		return nil, newFileAccessError("opening directory "+dir, err)
	}

	defer func() { _ = f.Close() }()

	entries, err := f.Readdir(-1)
	if err != nil {
		return nil, newFileAccessError("reading directory "+dir, err)
	}

	filtered := entries[:0]

	for _, e := range entries {
		if e.Name() == "." || e.Name() == ".." {
			continue
		}

		filtered = append(filtered, e)
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name() < filtered[j].Name() })

	return filtered, nil
}
