package internal

// ClientVersion is the current release version of the Mendel client. It is sent in the User-Agent
// header.
const ClientVersion = "1.2.0"
