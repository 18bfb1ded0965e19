package testdata

const (
	// RegistryID is the placeholder AWS account used as the registry in tests.
	RegistryID = "123456789012"
	// Region is the placeholder region used in tests.
	Region = "us-east-1"
	// RepositoryName is the placeholder repository used in tests.
	RepositoryName = "my-app"
	// RepositoryURI is the URI ECR reports for RepositoryName.
	RepositoryURI = RegistryID + ".dkr.ecr." + Region + ".amazonaws.com/" + RepositoryName
	// RepositoryARN is the ARN ECR reports for RepositoryName.
	RepositoryARN = "arn:aws:ecr:" + Region + ":" + RegistryID + ":repository/" + RepositoryName
)
