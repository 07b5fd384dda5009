package fs

import (
	"os"

	"github.com/karrick/godirwalk"
)

// Walk visits every entry beneath rootPath, used by distclean's global-bin
// symlink sweep and test's default glob discovery of *_test.* sources.
func Walk(rootPath string, callback func(name string, isDir bool) error) error {
	if info, err := os.Lstat(rootPath); err != nil {
		return err
	} else if !info.IsDir() {
		return callback(rootPath, false)
	}
	return godirwalk.Walk(rootPath, &godirwalk.Options{
		Callback: func(name string, info *godirwalk.Dirent) error {
			return callback(name, info.IsDir())
		},
		Unsorted: false,
	})
}
