package pydist

// stdlibModules mirrors sys.stdlib_module_names for CPython 3.12 (public
// names only), plus historical top-level names that still ship with the
// interpreter. Imports matching this set need no version pin. The set is
// data, not logic: callers extend or replace it through configuration.
var stdlibModules = []string{
	"__future__", "abc", "aifc", "argparse", "array", "ast", "asyncio",
	"atexit", "audioop", "base64", "bdb", "binascii", "bisect", "builtins",
	"bz2", "calendar", "cgi", "cgitb", "chunk", "cmath", "cmd", "code",
	"codecs", "codeop", "collections", "colorsys", "compileall",
	"concurrent", "configparser", "contextlib", "contextvars", "copy",
	"copyreg", "cProfile", "crypt", "csv", "ctypes", "curses",
	"dataclasses", "datetime", "dbm", "decimal", "difflib", "dis",
	"doctest", "email", "encodings", "ensurepip", "enum", "errno",
	"faulthandler", "fcntl", "filecmp", "fileinput", "fnmatch",
	"fractions", "ftplib", "functools", "gc", "getopt", "getpass",
	"gettext", "glob", "graphlib", "grp", "gzip", "hashlib", "heapq",
	"hmac", "html", "http", "idlelib", "imaplib", "imghdr", "importlib",
	"inspect", "io", "ipaddress", "itertools", "json", "keyword",
	"linecache", "locale", "logging", "lzma", "mailbox", "mailcap",
	"marshal", "math", "mimetypes", "mmap", "modulefinder", "msvcrt",
	"multiprocessing", "netrc", "nis", "nntplib", "ntpath", "numbers",
	"operator", "optparse", "os", "ossaudiodev", "pathlib", "pdb",
	"pickle", "pickletools", "pipes", "pkgutil", "platform", "plistlib",
	"poplib", "posix", "posixpath", "pprint", "profile", "pstats", "pty",
	"pwd", "py_compile", "pyclbr", "pydoc", "queue", "quopri", "random",
	"re", "readline", "reprlib", "resource", "rlcompleter", "runpy",
	"sched", "secrets", "select", "selectors", "shelve", "shlex",
	"shutil", "signal", "site", "smtplib", "sndhdr", "socket",
	"socketserver", "spwd", "sqlite3", "ssl", "stat", "statistics",
	"string", "stringprep", "struct", "subprocess", "sunau", "symtable",
	"sys", "sysconfig", "syslog", "tabnanny", "tarfile", "telnetlib",
	"tempfile", "termios", "test", "textwrap", "threading", "time",
	"timeit", "tkinter", "token", "tokenize", "tomllib", "trace",
	"traceback", "tracemalloc", "tty", "turtle", "turtledemo", "types",
	"typing", "unicodedata", "unittest", "urllib", "uu", "uuid", "venv",
	"warnings", "wave", "weakref", "webbrowser", "winreg", "winsound",
	"wsgiref", "xdrlib", "xml", "xmlrpc", "zipapp", "zipfile",
	"zipimport", "zlib", "zoneinfo",
}

// StdlibSet builds the standard-library exclusion set. override replaces
// the built-in list entirely when non-empty; extra names are added on top.
func StdlibSet(override, extra []string) map[string]struct{} {
	base := stdlibModules
	if len(override) > 0 {
		base = override
	}

	set := make(map[string]struct{}, len(base)+len(extra))
	for _, name := range base {
		set[name] = struct{}{}
	}
	for _, name := range extra {
		set[name] = struct{}{}
	}
	return set
}
