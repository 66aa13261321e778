// Package lifecycle decides when certificates are requested and runs the
// daily renew-and-reload job.
//
// Issuer.RequestInitial runs once at startup. For each configured domain it
// checks <cert_output_path>/live/<cert_name>/fullchain.pem and requests a
// certificate only when that file is missing. Renewer.Run renews everything
// under the output directory and reloads the proxy afterwards.
//
// Child process failures never propagate out of this package as fatal
// errors. They are logged, and returned in IssueOutcome / RenewOutcome so
// callers can inspect exit codes.
package lifecycle
