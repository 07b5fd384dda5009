package context

import (
	"runtime"

	"github.com/wakarni/zz/src/process"
	"github.com/wakarni/zz/src/target"
)

// link invokes the host C toolchain's linker to produce outPath from
// objects (bootstrap + app-specific module objects) and libs (the link
// set: this package's library plus every reachable import's library and
// native prerequisites), per spec.md §6: the payload of every static
// archive is forced into the image regardless of undefined-reference
// analysis, because the script runtime resolves exported modules lazily
// by name, and symbol export must remain permitted for that lookup to
// work at runtime. ldflags is followed by the LdFlags each lib target
// carries (set, for example, by a native-prerequisite factory).
func link(dir, outPath string, objects []*target.Target, libs []*target.Target, ldflags []string) error {
	var args []string
	for _, o := range objects {
		args = append(args, o.Path())
	}
	args = append(args, "-o", outPath)
	args = append(args, wholeArchiveWrap(libs)...)
	args = append(args, "-rdynamic")
	args = append(args, ldflags...)
	for _, l := range libs {
		args = append(args, l.LdFlags...)
	}
	return process.Run(dir, cCompiler(), args...)
}

// wholeArchiveWrap selects the per-platform linker flag sequence that
// forces every object in each archive into the final image rather than
// only those satisfying an undefined reference.
func wholeArchiveWrap(libs []*target.Target) []string {
	if runtime.GOOS == "darwin" {
		var args []string
		for _, l := range libs {
			args = append(args, "-Wl,-force_load,"+l.Path())
		}
		return args
	}
	var args []string
	args = append(args, "-Wl,--whole-archive")
	for _, l := range libs {
		args = append(args, l.Path())
	}
	args = append(args, "-Wl,--no-whole-archive")
	return args
}
