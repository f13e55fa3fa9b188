// Package match resolves short, human-chosen component names to the
// concrete component identifiers of a build dependency graph.
//
// # Query Language
//
// A query is a plain name or a '/'-separated path of up to three segments:
//
//	lib               every component of type "lib"
//	testpmd           the app "dpdk-testpmd"
//	eal               the component "eal", whatever its type
//	ice               the driver "net_ice", if no other class has an "ice"
//	net/ice           the driver "net_ice"
//	drivers/net       every driver of class "net"
//	lib/eal           the component "eal" of type "lib"
//	app/testpmd       the app "dpdk-testpmd"
//	drivers/net/ice   the driver "net_ice", looked up in "drivers" only
//
// # Resolution Order
//
// Each query shape has an ordered chain of [Matcher] rules, and the first
// rule that yields a non-empty result wins. For a plain query the rules are
// category, app name, component name, then unique driver leaf. A driver
// leaf shared by several classes (e.g. net_iavf and common_iavf for "iavf")
// is ambiguous and fails rather than picking one.
//
// Failure is always reported as [*UnknownComponentError]; an empty result
// is never returned.
//
// # Conventions
//
// The app prefix ("dpdk-"), the app categories ("app", "examples") and the
// driver category ("drivers") are [Options]. [Resolve] uses
// [DefaultOptions]; build a [Resolver] with [New] to change them.
package match
