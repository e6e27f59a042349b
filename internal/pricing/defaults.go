package pricing

// Default returns the built-in AWS price table (USD per month).
func Default() *Table {
	return NewTable(map[string][]Entry{
		"aws_instance": {
			{Attribute: "instance_type", Value: "t3.micro", Price: 7.59, Unit: "month"},
			{Attribute: "instance_type", Value: "t3.small", Price: 15.18, Unit: "month"},
			{Attribute: "instance_type", Value: "t3.medium", Price: 30.37, Unit: "month"},
			{Attribute: "instance_type", Value: "t3.large", Price: 60.74, Unit: "month"},
			{Attribute: "instance_type", Value: "t3.xlarge", Price: 121.47, Unit: "month"},
			{Attribute: "instance_type", Value: "t3.2xlarge", Price: 242.94, Unit: "month"},
			{Attribute: "instance_type", Value: "m5.large", Price: 70.08, Unit: "month"},
			{Attribute: "instance_type", Value: "m5.xlarge", Price: 140.16, Unit: "month"},
			{Attribute: "instance_type", Value: "c5.large", Price: 62.05, Unit: "month"},
			{Attribute: "instance_type", Value: "c5.xlarge", Price: 124.10, Unit: "month"},
		},
		"aws_db_instance": {
			{Attribute: "instance_class", Value: "db.t3.micro", Price: 12.41, Unit: "month"},
			{Attribute: "instance_class", Value: "db.t3.small", Price: 24.82, Unit: "month"},
			{Attribute: "instance_class", Value: "db.t3.medium", Price: 49.64, Unit: "month"},
			{Attribute: "instance_class", Value: "db.t3.large", Price: 99.28, Unit: "month"},
			{Attribute: "instance_class", Value: "db.r5.large", Price: 175.20, Unit: "month"},
			{Attribute: "instance_class", Value: "db.r5.xlarge", Price: 350.40, Unit: "month"},
		},
		"aws_lambda_function": {
			{Attribute: "memory_size", Value: "128", Price: 0.50, Unit: "month"},
			{Attribute: "memory_size", Value: "256", Price: 1.00, Unit: "month"},
			{Attribute: "memory_size", Value: "512", Price: 2.00, Unit: "month"},
			{Attribute: "memory_size", Value: "1024", Price: 4.00, Unit: "month"},
			{Attribute: "memory_size", Value: "2048", Price: 8.00, Unit: "month"},
		},
		"aws_s3_bucket":            {{Price: 0.023, Unit: "GB/month"}},
		"aws_efs_file_system":      {{Price: 0.30, Unit: "GB/month"}},
		"aws_cloudwatch_log_group": {{Price: 0.50, Unit: "GB/month"}},
		"aws_route53_record":       {{Price: 0.50, Unit: "month"}},
		"aws_security_group":       {{Price: 0, Unit: "month"}},
		"aws_iam_role":             {{Price: 0, Unit: "month"}},
	})
}
