// Package mdfilewatch reloads Mendel import files whenever they change. It should be used in
// conjunction with the mdfiledata package. The two packages are separate so as to avoid bringing
// additional dependencies for users who do not need automatic reloading.
package mdfilewatch
