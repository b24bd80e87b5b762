package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/docfabric/cmisgo/pkg/binding/memrepo"
	"github.com/docfabric/cmisgo/pkg/cmis"
	"github.com/docfabric/cmisgo/pkg/session"
)

var (
	fixturePath = ""
	paramsPath  = ""
	timeout     = 30 * time.Second
)

// version metadata populated via -ldflags at build time
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	if len(os.Args) < 2 {
		showHelp()
		return
	}

	command := os.Args[1]
	args := parseGlobalFlags(os.Args[2:])

	if command == "version" {
		fmt.Printf("cmisctl %s", version)
		if commit != "" {
			fmt.Printf(" (commit %s)", commit)
		}
		if date != "" {
			fmt.Printf(" built %s", date)
		}
		fmt.Println()
		return
	}
	if command == "help" || command == "--help" || command == "-h" {
		showHelp()
		return
	}

	sess, err := openSession()
	if err != nil {
		fail("Failed to open session: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	switch command {
	case "info":
		cmdInfo(ctx, sess)
	case "ls":
		cmdLs(ctx, sess, args)
	case "tree":
		cmdTree(ctx, sess, args)
	case "get":
		cmdGet(ctx, sess, args)
	case "cat":
		cmdCat(ctx, sess, args)
	case "query":
		cmdQuery(ctx, sess, args)
	case "changes":
		cmdChanges(ctx, sess, args)
	case "types":
		cmdTypes(ctx, sess)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showHelp()
		os.Exit(1)
	}
}

// parseGlobalFlags strips global flags out of the argument list and returns
// the rest.
func parseGlobalFlags(args []string) []string {
	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-fixture", "--fixture":
			if i+1 < len(args) {
				fixturePath = args[i+1]
				i++
			}
		case "-params", "--params":
			if i+1 < len(args) {
				paramsPath = args[i+1]
				i++
			}
		case "-timeout", "--timeout":
			if i+1 < len(args) {
				if d, err := time.ParseDuration(args[i+1]); err == nil {
					timeout = d
				}
				i++
			}
		default:
			rest = append(rest, args[i])
		}
	}
	return rest
}

func openSession() (*session.Session, error) {
	var repo *memrepo.Repository
	var err error
	if fixturePath != "" {
		repo, err = memrepo.LoadFixture(fixturePath)
		if err != nil {
			return nil, err
		}
	} else {
		repo = memrepo.NewRepository("cmisctl", "cmisctl scratch repository")
	}

	var params *session.Parameters
	if paramsPath != "" {
		params, err = session.LoadParameters(paramsPath)
		if err != nil {
			return nil, err
		}
	} else {
		params = session.DefaultParameters("cmisctl")
	}
	params.QuietMode = true

	return session.NewSession(params, repo, nil)
}

func cmdInfo(ctx context.Context, sess *session.Session) {
	info, err := sess.GetRepositoryInfo(ctx)
	if err != nil {
		fail("Failed to fetch repository info: %v", err)
	}
	fmt.Printf("Repository:   %s (%s)\n", info.Name, info.ID)
	fmt.Printf("Product:      %s %s %s\n", info.VendorName, info.ProductName, info.ProductVersion)
	fmt.Printf("CMIS version: %s\n", info.CMISVersionSupported)
	fmt.Printf("Root folder:  %s\n", info.RootFolderID)
	if info.Capabilities != nil {
		fmt.Printf("Query:        %s\n", info.Capabilities.Query)
		fmt.Printf("Changes:      %s\n", info.Capabilities.Changes)
		fmt.Printf("Versioning:   %v\n", info.Capabilities.Versioning)
	}
}

func cmdLs(ctx context.Context, sess *session.Session, args []string) {
	path := "/"
	if len(args) > 0 {
		path = args[0]
	}
	obj, err := sess.GetObjectByPath(ctx, path)
	if err != nil {
		fail("Failed to resolve %s: %v", path, err)
	}
	folder, ok := obj.(*session.Folder)
	if !ok {
		fail("%s is not a folder", path)
	}

	it := sess.GetChildren(ctx, folder.ID()).Iterate()
	for {
		child, ok := it.Next()
		if !ok {
			break
		}
		marker := " "
		if child.BaseType() == cmis.BaseTypeFolder {
			marker = "/"
		}
		fmt.Printf("%s%s\t%s\t%s\n", child.Name(), marker, child.BaseType(), child.ID())
	}
	if err := it.Err(); err != nil {
		fail("Listing failed: %v", err)
	}
}

func cmdTree(ctx context.Context, sess *session.Session, args []string) {
	path := "/"
	if len(args) > 0 {
		path = args[0]
	}
	obj, err := sess.GetObjectByPath(ctx, path)
	if err != nil {
		fail("Failed to resolve %s: %v", path, err)
	}
	fmt.Println(path)
	printTree(ctx, sess, obj.ID(), "")
}

func printTree(ctx context.Context, sess *session.Session, folderID, indent string) {
	children, err := sess.GetChildren(ctx, folderID).ToSlice()
	if err != nil {
		fail("Listing failed: %v", err)
	}
	for i, child := range children {
		connector := "├── "
		childIndent := indent + "│   "
		if i == len(children)-1 {
			connector = "└── "
			childIndent = indent + "    "
		}
		fmt.Printf("%s%s%s\n", indent, connector, child.Name())
		if child.BaseType() == cmis.BaseTypeFolder {
			printTree(ctx, sess, child.ID(), childIndent)
		}
	}
}

func cmdGet(ctx context.Context, sess *session.Session, args []string) {
	if len(args) < 1 {
		fail("Usage: cmisctl get <path-or-id>")
	}
	ref := args[0]

	var obj session.CmisObject
	var err error
	if strings.HasPrefix(ref, "/") {
		obj, err = sess.GetObjectByPath(ctx, ref)
	} else {
		obj, err = sess.GetObject(ctx, ref)
	}
	if err != nil {
		fail("Failed to fetch %s: %v", ref, err)
	}

	fmt.Printf("ID:        %s\n", obj.ID())
	fmt.Printf("Name:      %s\n", obj.Name())
	fmt.Printf("Type:      %s (%s)\n", obj.ObjectTypeID(), obj.BaseType())
	if created, ok := obj.CreationDate(); ok {
		fmt.Printf("Created:   %s by %s\n", created.Format(time.RFC3339), obj.CreatedBy())
	}
	if modified, ok := obj.LastModificationDate(); ok {
		fmt.Printf("Modified:  %s by %s\n", modified.Format(time.RFC3339), obj.LastModifiedBy())
	}
	if doc, ok := obj.(*session.Document); ok {
		if length, ok := doc.ContentStreamLength(); ok {
			fmt.Printf("Content:   %d bytes (%s)\n", length, doc.ContentStreamMimeType())
		}
		fmt.Printf("Version:   %s\n", doc.VersionLabel())
	}
	if folder, ok := obj.(*session.Folder); ok {
		fmt.Printf("Path:      %s\n", folder.Path())
	}
}

func cmdCat(ctx context.Context, sess *session.Session, args []string) {
	if len(args) < 1 {
		fail("Usage: cmisctl cat <path>")
	}
	obj, err := sess.GetObjectByPath(ctx, args[0])
	if err != nil {
		fail("Failed to resolve %s: %v", args[0], err)
	}
	stream, err := sess.GetContentStream(ctx, obj.ID(), "")
	if err != nil {
		fail("Failed to fetch content: %v", err)
	}
	if _, err := io.Copy(os.Stdout, stream.Stream); err != nil {
		fail("Failed to read content: %v", err)
	}
}

func cmdQuery(ctx context.Context, sess *session.Session, args []string) {
	if len(args) < 1 {
		fail("Usage: cmisctl query <statement>")
	}
	statement := strings.Join(args, " ")

	it := sess.Query(ctx, statement, false).Iterate()
	count := 0
	for {
		row, ok := it.Next()
		if !ok {
			break
		}
		count++
		name, _ := row.ByQueryName(cmis.PropertyName)
		id, _ := row.ByQueryName(cmis.PropertyObjectID)
		fmt.Printf("%v\t%v\n", id, name)
	}
	if err := it.Err(); err != nil {
		fail("Query failed: %v", err)
	}
	fmt.Printf("(%d rows)\n", count)
}

func cmdChanges(ctx context.Context, sess *session.Session, args []string) {
	token := ""
	if len(args) > 0 {
		token = args[0]
	}
	it := sess.GetContentChanges(ctx, token, false).Iterate()
	for {
		ev, ok := it.Next()
		if !ok {
			break
		}
		fmt.Printf("%s\t%s\t%s\n", ev.ChangeTime.Format(time.RFC3339), ev.ChangeType, ev.ObjectID)
	}
	if err := it.Err(); err != nil {
		fail("Change log read failed: %v", err)
	}
	latest, err := sess.LatestChangeLogToken(ctx)
	if err == nil {
		fmt.Printf("Latest token: %s\n", latest)
	}
}

func cmdTypes(ctx context.Context, sess *session.Session) {
	types, err := sess.GetTypeChildren(ctx, "", false).ToSlice()
	if err != nil {
		fail("Failed to list types: %v", err)
	}
	for _, def := range types {
		fmt.Printf("%s\t%s\n", def.ID, def.DisplayName)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "❌ "+format+"\n", args...)
	os.Exit(1)
}

func showHelp() {
	fmt.Print(`cmisctl - repository session command line

Usage: cmisctl <command> [args] [flags]

Commands:
  info                 Show repository information
  ls [path]            List the children of a folder
  tree [path]          Print a folder subtree
  get <path-or-id>     Show one object's metadata
  cat <path>           Print a document's content
  query <statement>    Run a query statement
  changes [token]      Read the change log from a token
  types                List base types
  version              Show version information

Flags:
  -fixture <file>      Seed the in-memory repository from a YAML fixture
  -params <file>       Load session parameters from a YAML file
  -timeout <duration>  Per-command timeout (default 30s)
`)
}
