// Package project loads timelines from YAML or JSON project files.
//
// A project file is either a bare root node or a document with a name and
// a timeline:
//
//	name: demo
//	timeline:
//	  role: folder
//	  start: 0
//	  tracks:
//	    - clips:
//	        - role: clip
//	          start: 10
//	          length: 5
//	          source: a.png
//
// A track may also be written as a bare list of nodes. Missing start and
// length default to 0; an empty source is treated as absent.
package project
