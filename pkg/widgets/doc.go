// Package widgets provides the built-in view set.
//
// Every widget is a plain value implementing one of the core view roles.
// Leaves ([Text], [ColoredBox]) paint content, single-child wrappers
// ([Padding], [Opacity], [ClipRect], [SizedBox]) shape one subtree, and
// flex containers ([Row], [Column]) lay out ordered children. [ValueScope]
// exposes an ambient value to descendants.
package widgets
