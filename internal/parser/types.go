package parser

// Result is the outcome of extracting one candidate file: either a set of
// top-level import names or a tagged failure, never both. Failures carry a
// *scanerr.ScanError code so the pipeline can recover and report without
// any per-file error escaping the aggregation loop.
type Result struct {
	Path  string
	Names map[string]struct{}
	Err   error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

func success(path string, names map[string]struct{}) Result {
	return Result{Path: path, Names: names}
}

func failure(path string, err error) Result {
	return Result{Path: path, Err: err}
}
