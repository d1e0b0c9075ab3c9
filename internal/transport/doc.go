// Package transport pushes finished artifacts to a remote receiver.
//
// A target is either "[user@]host:path", pushed over SFTP with host keys
// checked against known_hosts, or a plain directory, filled by verified
// local copy. Files land under a hidden temporary name and are renamed into
// place so a polling receiver never sees a partial file.
package transport
