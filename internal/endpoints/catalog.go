// Package endpoints maps logical operations to venue paths for one contract segment.
package endpoints

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coachpo/bybitconn/errs"
)

// Segment is a Bybit contract family. Each segment has its own path table.
type Segment int

const (
	// SegmentNone exposes only the account-asset endpoints.
	SegmentNone Segment = iota
	SegmentLinear
	SegmentInverse
	SegmentFutures
	SegmentSpot
)

func (s Segment) String() string {
	switch s {
	case SegmentLinear:
		return "linear"
	case SegmentInverse:
		return "inverse"
	case SegmentFutures:
		return "futures"
	case SegmentSpot:
		return "spot"
	default:
		return ""
	}
}

// ParseSegment maps a contract type name to a Segment. The empty string is SegmentNone.
func ParseSegment(name string) (Segment, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return SegmentNone, nil
	case "linear":
		return SegmentLinear, nil
	case "inverse":
		return SegmentInverse, nil
	case "futures":
		return SegmentFutures, nil
	case "spot":
		return SegmentSpot, nil
	default:
		return SegmentNone, errs.New(errs.CodeConfiguration,
			errs.WithMessage(fmt.Sprintf("unknown contract segment %q", name)))
	}
}

// QueryOnMutations reports whether non-GET requests carry their parameters as
// a query string on the path instead of a JSON body.
func (s Segment) QueryOnMutations() bool {
	return s == SegmentSpot
}

// Route describes how to reach one operation.
type Route struct {
	Operation Operation
	Method    string
	Path      string
	Auth      bool
}

// Catalog is an immutable operation table for one segment.
type Catalog struct {
	segment Segment
	routes  map[Operation]Route
}

// New builds the catalog for segment.
func New(segment Segment) Catalog {
	paths := make(map[Operation]string)
	for op, path := range segmentPaths[segment] {
		paths[op] = path
	}
	switch segment {
	case SegmentLinear, SegmentInverse, SegmentFutures:
		for op, path := range derivativesSharedPaths {
			paths[op] = path
		}
	}
	for op, path := range accountAssetPaths {
		paths[op] = path
	}

	routes := make(map[Operation]Route, len(paths))
	for op, path := range paths {
		acc, ok := segmentVerbs[segment][op]
		if !ok {
			acc, ok = verbs[op]
		}
		if !ok {
			acc = publicGet
		}
		routes[op] = Route{Operation: op, Method: acc.method, Path: path, Auth: acc.auth}
	}
	return Catalog{segment: segment, routes: routes}
}

// Segment returns the segment the catalog was built for.
func (c Catalog) Segment() Segment {
	return c.segment
}

// Route resolves an operation.
func (c Catalog) Route(op Operation) (Route, error) {
	route, ok := c.routes[op]
	if !ok {
		segment := c.segment.String()
		if segment == "" {
			segment = "none"
		}
		return Route{}, errs.NotSupported(fmt.Sprintf("operation %s is not available for segment %s", op, segment))
	}
	return route, nil
}

// Path resolves just the path of an operation.
func (c Catalog) Path(op Operation) (string, error) {
	route, err := c.Route(op)
	if err != nil {
		return "", err
	}
	return route.Path, nil
}

// Operations lists the available operations sorted by name.
func (c Catalog) Operations() []Operation {
	ops := make([]Operation, 0, len(c.routes))
	for op := range c.routes {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
