// Package loader provides jvmruntime.ClassLoader implementations.
//
// Class names are internal names ("java/lang/Object"); dotted binary
// names ("java.lang.Object") are accepted and converted. A loader that
// does not have a class returns an error of kind not_found, which a Chain
// treats as "try the next entry". Any other error stops the search.
//
//	chain := loader.Chain{
//	    loader.NewDirLoader("build/classes"),
//	    jar,
//	}
//	defer chain.Close()
//	data, err := chain.Load("com/example/Main")
package loader
