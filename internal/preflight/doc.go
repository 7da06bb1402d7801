// Package preflight provides readiness checks for the external programs and
// filesystem paths that cuekit depends on.
//
// These checks run in two contexts:
//   - The watch command calls RunAll before it starts, so a missing encoder
//     is reported once instead of on every dropped album.
//   - The CLI "cuekit deps" command uses CheckSystemDeps and RunAll to
//     display tool and directory health.
package preflight
