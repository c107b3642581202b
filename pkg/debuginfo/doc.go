/*
Package debuginfo reads the static debugging data a fixture binary carries.

It maps source lines to machine addresses through the DWARF line table,
loads source files for display, and keeps the set of breakpoints a debugger
front end would patch into a live process. It never attaches to a process.
*/
package debuginfo
