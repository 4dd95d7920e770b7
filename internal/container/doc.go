// Package container implements the .fenc password-protected file format.
//
// An encrypted file is the AES-256-CBC ciphertext of the original bytes
// (PKCS#7 padded), followed by a 24-byte footer: the 8-byte PBKDF2 salt and
// the 16-byte IV. The key is derived from the password and salt with
// PBKDF2-HMAC-SHA1 at 65536 iterations and is never stored.
//
// The format has no integrity tag. A wrong password is only noticed when the
// padding of the last block fails to verify, which happens for most but not
// all wrong passwords, and a corrupt file reports the same error.
//
// Files are streamed in fixed-size chunks, so memory use does not grow with
// file size. Output goes to a temp file that is renamed into place only after
// a successful run, and the input is opened read-only, so a failed or
// canceled operation leaves no output and an unchanged source.
package container
