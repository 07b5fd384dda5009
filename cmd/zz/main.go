// Command zz is the build driver entrypoint: it parses the CLI surface
// described in spec.md §6 and dispatches to src/driver.
package main

import (
	"os"
	"path/filepath"

	logging "gopkg.in/op/go-logging.v1"

	"github.com/wakarni/zz/src/cli"
	"github.com/wakarni/zz/src/core"
	"github.com/wakarni/zz/src/driver"
	"github.com/wakarni/zz/src/fs"
	"github.com/wakarni/zz/src/scm"
)

var opts struct {
	Usage     string        `usage:"zz builds and runs packages of the zz scripting runtime."`
	Verbosity logging.Level `short:"v" long:"verbosity" description:"Verbosity of logging output" default:"3"`
	Quiet     bool          `short:"q" long:"quiet" description:"Silence informational logging"`

	Init struct {
		Args struct {
			Pkg string `positional-arg-name:"pkg" required:"true" description:"Package identifier to initialize"`
		} `positional-args:"true" required:"true"`
	} `command:"init" description:"Lays out an empty package tree"`

	Checkout struct {
		Update   bool   `short:"u" long:"update" description:"Pull if the package is already checked out"`
		Revision string `short:"r" long:"revision" description:"Revision to check out"`
		Args     struct {
			Pkg string `positional-arg-name:"pkg" required:"true" description:"Package reference to check out"`
		} `positional-args:"true" required:"true"`
	} `command:"checkout" description:"Checks out a package from its remote"`

	Get struct {
		Update bool `short:"u" long:"update" description:"Pull if the package is already checked out"`
		Args   struct {
			Pkg string `positional-arg-name:"pkg" required:"true" description:"Package reference to fetch"`
		} `positional-args:"true" required:"true"`
	} `command:"get" description:"Fetches a package; with -u, updates it if already present"`

	Build struct {
		Recursive bool `short:"r" long:"recursive" description:"Build imports recursively first"`
		Args      struct {
			Pkg string `positional-arg-name:"pkg" description:"Package to build (default: current package)"`
		} `positional-args:"true"`
	} `command:"build" description:"Builds a package's library, natives and apps"`

	Install struct {
		Args struct {
			Pkg string `positional-arg-name:"pkg" description:"Package to install (default: current package)"`
		} `positional-args:"true"`
	} `command:"install" description:"Builds and installs a package's apps into the global bindir"`

	Run struct {
		Args struct {
			Script string   `positional-arg-name:"script" required:"true" description:"Script path to run"`
			Extra  []string `positional-arg-name:"args" description:"Arguments forwarded to the script"`
		} `positional-args:"true" required:"true"`
	} `command:"run" description:"Builds a runner and execs the given script"`

	Test struct {
		Args struct {
			Names []string `positional-arg-name:"name" description:"Test names or modules (default: every *_test.* source)"`
		} `positional-args:"true"`
	} `command:"test" description:"Builds and runs the package's tests"`

	Clean struct {
		Args struct {
			Pkg string `positional-arg-name:"pkg" description:"Package to clean (default: current package)"`
		} `positional-args:"true"`
	} `command:"clean" description:"Removes obj/lib/tmp for a package"`

	Distclean struct {
		Args struct {
			Pkg string `positional-arg-name:"pkg" description:"Package to distclean (default: current package)"`
		} `positional-args:"true"`
	} `command:"distclean" description:"Clean plus bin, native staging, and global symlinks"`
}

func main() {
	command, extra := cli.ParseArgsOrDie("zz", &opts)
	cli.InitLogging(opts.Verbosity, opts.Quiet)

	root := fs.WorkspaceRoot()
	d := driver.New(root)

	var err error
	switch command {
	case "init":
		err = runInit(root, opts.Init.Args.Pkg)
	case "checkout":
		err = runCheckout(root, opts.Checkout.Args.Pkg, opts.Checkout.Update, opts.Checkout.Revision)
	case "get":
		err = runGet(root, opts.Get.Args.Pkg, opts.Get.Update)
	case "build":
		err = d.Build(currentOrArg(opts.Build.Args.Pkg), opts.Build.Recursive, true)
	case "install":
		err = d.Install(currentOrArg(opts.Install.Args.Pkg))
	case "run":
		err = d.Run(currentPackage(), opts.Run.Args.Script, append(opts.Run.Args.Extra, extra...))
	case "test":
		err = d.Test(currentPackage(), opts.Test.Args.Names)
	case "clean":
		err = d.Clean(currentOrArg(opts.Clean.Args.Pkg))
	case "distclean":
		err = d.Distclean(currentOrArg(opts.Distclean.Args.Pkg))
	default:
		cli.Log.Fatalf("unknown command %q", command)
	}
	if err != nil {
		cli.Log.Errorf("%s", err)
		os.Exit(1)
	}
}

func runInit(root, pkgArg string) error {
	ref, err := core.ParseIdentifier(pkgArg)
	if err != nil {
		return err
	}
	return scm.Init(root, ref.Identifier)
}

func runCheckout(root, pkgArg string, update bool, revision string) error {
	ref, err := core.ParseIdentifier(pkgArg)
	if err != nil {
		return err
	}
	return scm.Checkout(root, ref, update, revision)
}

func runGet(root, pkgArg string, update bool) error {
	ref, err := core.ParseIdentifier(pkgArg)
	if err != nil {
		return err
	}
	return scm.Get(root, ref, update)
}

// currentOrArg returns pkgArg parsed as an identifier, or the current
// package (derived from the working directory) when pkgArg is empty.
func currentOrArg(pkgArg string) core.Identifier {
	if pkgArg == "" {
		return currentPackage()
	}
	ref, err := core.ParseIdentifier(pkgArg)
	if err != nil {
		cli.Log.Fatalf("%s", err)
	}
	return ref.Identifier
}

// currentPackage resolves the "current" package per spec.md §4.2: walk
// upward from the working directory until a package.lua is found, then
// map that directory back to an identifier relative to $ROOT/src.
func currentPackage() core.Identifier {
	wd, err := os.Getwd()
	if err != nil {
		cli.Log.Fatalf("getting working directory: %s", err)
	}
	pkgDir, err := core.LocatePackageLua(wd)
	if err != nil {
		cli.Log.Fatalf("%s; pass an explicit package argument", err)
	}
	root := fs.WorkspaceRoot()
	srcRoot := root + string(os.PathSeparator) + "src" + string(os.PathSeparator)
	if len(pkgDir) <= len(srcRoot) || pkgDir[:len(srcRoot)] != srcRoot {
		cli.Log.Fatalf("%s is not inside %s; pass an explicit package argument", pkgDir, srcRoot)
	}
	return core.Identifier(filepath.ToSlash(pkgDir[len(srcRoot):]))
}
