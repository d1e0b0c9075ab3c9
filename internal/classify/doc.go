// Package classify runs the predictive model over extracted reads.
//
// A ModelSource names either a builtin variant shipped inside an installed
// model package or a user-supplied model file. New resolves the source once;
// a package with no or several matching config/weights files is a
// configuration error. Classify writes one score per read to a .npy file,
// skipping the model entirely for empty read sets.
package classify
