package jvmruntime

// ClassLoader locates the bytes of a class by its internal name, such as
// "java/lang/Object". Implementations return an error of kind not_found
// when they do not have the class, so a search order can move on.
type ClassLoader interface {
	Load(name string) ([]byte, error)
}

// ClassLoaderFunc adapts a function to ClassLoader.
type ClassLoaderFunc func(name string) ([]byte, error)

func (f ClassLoaderFunc) Load(name string) ([]byte, error) { return f(name) }
