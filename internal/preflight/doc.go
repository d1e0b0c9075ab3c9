// Package preflight is the explicit startup step every stage runs before its
// driving loop: it creates the directories the stage works in, checks their
// permissions, confirms the external tools are installed and resolves the
// model and push credentials. Any failed check aborts the stage with a
// configuration error before a single unit is touched.
//
// The status command reuses the individual checks to display readiness.
package preflight
